package websocket

import (
	"context"
	"log/slog"
	"sync"

	"github.com/rocketscienceinc/tictactoe-table/internal/tictactoe"
)

// Hub tracks live connections and delivers coordinator notifications to them.
type Hub struct {
	logger *slog.Logger

	connectionsMutex sync.RWMutex
	connections      map[string]*connection
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		logger:      logger.With("component", "hub"),
		connections: make(map[string]*connection),
	}
}

// Notify implements tictactoe.Notifier. The frame is encoded once and queued on
// every addressed connection.
func (that *Hub) Notify(_ context.Context, event string, payload any, audience tictactoe.Audience) {
	log := that.logger.With("method", "Notify", "event", event)

	frame, err := encodeMessage(event, payload)
	if err != nil {
		log.Error("failed to encode event", "error", err)
		return
	}

	that.connectionsMutex.RLock()
	defer that.connectionsMutex.RUnlock()

	if !audience.IsEveryone() {
		conn, ok := that.connections[audience.ConnectionID]
		if !ok {
			log.Debug("connection not found", "connectionID", audience.ConnectionID)
			return
		}

		conn.enqueue(frame)
		return
	}

	for _, conn := range that.connections {
		conn.enqueue(frame)
	}
}

// Count returns the number of live connections.
func (that *Hub) Count() int {
	that.connectionsMutex.RLock()
	defer that.connectionsMutex.RUnlock()

	return len(that.connections)
}

// CloseAll sends a going-away close frame to every connection.
func (that *Hub) CloseAll() {
	that.connectionsMutex.RLock()
	connections := make([]*connection, 0, len(that.connections))
	for _, conn := range that.connections {
		connections = append(connections, conn)
	}
	that.connectionsMutex.RUnlock()

	for _, conn := range connections {
		conn.shutdown()
	}
}

func (that *Hub) register(conn *connection) {
	that.connectionsMutex.Lock()
	defer that.connectionsMutex.Unlock()

	that.connections[conn.id] = conn
}

func (that *Hub) unregister(id string) {
	that.connectionsMutex.Lock()
	defer that.connectionsMutex.Unlock()

	delete(that.connections, id)
}
