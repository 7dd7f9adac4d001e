package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/rocketscienceinc/tictactoe-table/internal/entity"
)

type stateProvider interface {
	Snapshot() entity.Snapshot
}

type Server struct {
	logger *slog.Logger
	srv    *http.Server
}

// New builds the HTTP server: static assets at /, the websocket endpoint at /ws,
// plus /ping and /state.
func New(logger *slog.Logger, port, staticDir string, ws http.Handler, state stateProvider) *Server {
	return &Server{
		logger: logger.With("component", "http"),
		srv: &http.Server{
			Addr:              ":" + port,
			Handler:           NewMux(logger, staticDir, ws, state),
			ReadHeaderTimeout: 10 * time.Second,
			IdleTimeout:       30 * time.Second,
		},
	}
}

func NewMux(logger *slog.Logger, staticDir string, ws http.Handler, state stateProvider) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/ws", ws)
	mux.HandleFunc("/ping", NewPingHandler().PingHandler)
	mux.HandleFunc("/state", NewStateHandler(logger, state).StateHandler)
	mux.Handle("/", http.FileServer(http.Dir(staticDir)))

	return mux
}

// Start - serves until Shutdown is called.
func (that *Server) Start() error {
	that.logger.Info("Starting HTTP server", "addr", that.srv.Addr)

	if err := that.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

func (that *Server) Shutdown(ctx context.Context) error {
	if err := that.srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	return nil
}
