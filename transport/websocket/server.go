package websocket

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/tictactoe-table/internal/entity"
	"github.com/rocketscienceinc/tictactoe-table/internal/tictactoe"
)

type coordinator interface {
	JoinSeat(ctx context.Context, connectionID string, requested entity.Seat)
	MakeMove(ctx context.Context, connectionID string, cell int)
	HandleDisconnect(ctx context.Context, connectionID string)
}

type Server struct {
	logger      *slog.Logger
	hub         *Hub
	coordinator coordinator
	upgrader    websocket.Upgrader

	handlers map[string]func(ctx context.Context, conn *connection, message *Message) error
}

func New(logger *slog.Logger, hub *Hub, coordinator coordinator) *Server {
	server := &Server{
		logger:      logger.With("component", "websocket"),
		hub:         hub,
		coordinator: coordinator,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// the table is public; any page may connect
			CheckOrigin: func(*http.Request) bool { return true },
		},
		handlers: make(map[string]func(context.Context, *connection, *Message) error),
	}

	server.handlers[tictactoe.EventPlayerJoin] = server.handlePlayerJoin
	server.handlers[tictactoe.EventMakeMove] = server.handleMakeMove

	return server
}

// ServeHTTP upgrades the request and serves the connection until it drops.
func (that *Server) ServeHTTP(writer http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "ServeHTTP")

	ws, err := that.upgrader.Upgrade(writer, req, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	conn := newConnection(that.logger, uuid.NewString(), ws)
	that.hub.register(conn)

	log = log.With("connectionID", conn.id)
	log.Info("WebSocket connection established")

	go conn.writePump()

	// the request context ends with the handler; disconnect handling must still run
	ctx := context.WithoutCancel(req.Context())

	that.handleMessages(ctx, conn)

	that.hub.unregister(conn.id)
	conn.close()
	that.coordinator.HandleDisconnect(ctx, conn.id)

	log.Info("WebSocket connection closed")
}

// handleMessages - processes messages from the client until the socket fails.
func (that *Server) handleMessages(ctx context.Context, conn *connection) {
	log := that.logger.With("method", "handleMessages", "connectionID", conn.id)

	conn.conn.SetReadLimit(maxMessageSize)
	_ = conn.conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.conn.SetPongHandler(func(string) error {
		return conn.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := conn.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Debug("connection dropped", "error", err)
			}
			return
		}

		var message Message
		if err = json.Unmarshal(data, &message); err != nil {
			log.Debug("failed to unmarshal message", "error", err)
			continue
		}

		handler, ok := that.handlers[message.Event]
		if !ok {
			log.Debug("unknown event", "event", message.Event)
			continue
		}

		if err = handler(ctx, conn, &message); err != nil {
			log.Debug("error processing message", "event", message.Event, "error", err)
		}
	}
}
