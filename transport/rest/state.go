package rest

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

type StateHandler interface {
	StateHandler(w http.ResponseWriter, r *http.Request)
}

type stateHandler struct {
	logger *slog.Logger
	state  stateProvider
}

func NewStateHandler(logger *slog.Logger, state stateProvider) StateHandler {
	return &stateHandler{
		logger: logger,
		state:  state,
	}
}

// StateHandler - returns the current session snapshot as JSON.
func (that *stateHandler) StateHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(that.state.Snapshot()); err != nil {
		that.logger.Error("failed to encode state", "method", "StateHandler", "error", err)
	}
}
