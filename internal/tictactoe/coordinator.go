package tictactoe

import (
	"context"
	"log/slog"
	"sync"

	"github.com/rocketscienceinc/tictactoe-table/internal/entity"
)

type sessionStore interface {
	Save(ctx context.Context, snapshot *entity.Snapshot) error
	Delete(ctx context.Context) error
}

// Coordinator owns the single game session. Every handler holds the lock from
// its precondition checks through its broadcasts, so events are applied one at a time.
type Coordinator struct {
	logger   *slog.Logger
	notifier Notifier
	store    sessionStore

	mu      sync.Mutex
	session *entity.Session
}

// NewCoordinator builds a coordinator around an empty session. store may be nil.
func NewCoordinator(logger *slog.Logger, notifier Notifier, store sessionStore) *Coordinator {
	return &Coordinator{
		logger:   logger.With("component", "coordinator"),
		notifier: notifier,
		store:    store,
		session:  entity.NewSession(),
	}
}

// JoinSeat assigns the connection a seat, or the spectator role when the request
// cannot be honoured, and starts the game once both seats are filled.
func (that *Coordinator) JoinSeat(ctx context.Context, connectionID string, requested entity.Seat) {
	log := that.logger.With("method", "JoinSeat", "connectionID", connectionID)

	that.mu.Lock()
	defer that.mu.Unlock()

	seat, err := that.session.Assign(connectionID, requested)
	if err != nil {
		log.Debug("join degraded to spectator", "requested", requested, "reason", err)
	}

	log.Info("role assigned", "role", seat)
	that.notifier.Notify(ctx, EventPlayerAssignment, seat, Only(connectionID))

	if !that.session.Start() {
		that.persist(ctx)
		return
	}

	log.Info("game started")
	that.notifier.Notify(ctx, EventGameStart, GameStartPayload{
		CurrentPlayer: that.session.Turn,
		Board:         that.session.Board,
	}, Everyone())

	that.persist(ctx)
}

// MakeMove applies a move from the connection. Invalid moves are dropped
// without any state change or broadcast.
func (that *Coordinator) MakeMove(ctx context.Context, connectionID string, cell int) {
	log := that.logger.With("method", "MakeMove", "connectionID", connectionID)

	that.mu.Lock()
	defer that.mu.Unlock()

	seat, err := that.session.MakeTurn(connectionID, cell)
	if err != nil {
		log.Debug("move ignored", "cell", cell, "reason", err)
		return
	}

	log.Debug("move applied", "seat", seat, "cell", cell)

	that.notifier.Notify(ctx, EventGameUpdate, GameUpdatePayload{
		CurrentPlayer: that.session.Turn,
		Board:         that.session.Board,
		Winner:        that.session.Winner,
	}, Everyone())

	if that.session.IsFinished() {
		if that.session.IsTie() {
			log.Info("game finished in a tie")
		} else {
			log.Info("game finished", "winner", that.session.Winner)
		}

		that.notifier.Notify(ctx, EventGameEnd, GameEndPayload{Winner: that.session.Winner}, Everyone())
	}

	that.persist(ctx)
}

// HandleDisconnect resets the session when a seated connection goes away.
// Spectators leave without a trace.
func (that *Coordinator) HandleDisconnect(ctx context.Context, connectionID string) {
	log := that.logger.With("method", "HandleDisconnect", "connectionID", connectionID)

	that.mu.Lock()
	defer that.mu.Unlock()

	seat := that.session.SeatOf(connectionID)
	if !that.session.Vacate(connectionID) {
		log.Debug("spectator disconnected")
		return
	}

	log.Info("seated player disconnected, session reset", "seat", seat)
	that.notifier.Notify(ctx, EventPlayerDisconnected, nil, Everyone())

	if that.store == nil {
		return
	}

	if err := that.store.Delete(ctx); err != nil {
		log.Error("failed to delete session snapshot", "error", err)
	}
}

// Snapshot returns a copy of the current session.
func (that *Coordinator) Snapshot() entity.Snapshot {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.session.Snapshot()
}

func (that *Coordinator) persist(ctx context.Context) {
	if that.store == nil {
		return
	}

	snapshot := that.session.Snapshot()
	if err := that.store.Save(ctx, &snapshot); err != nil {
		that.logger.Error("failed to save session snapshot", "error", err)
	}
}
