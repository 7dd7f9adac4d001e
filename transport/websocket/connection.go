package websocket

import (
	"log/slog"
	"sync"
	"time"

	"github.com/eapache/queue"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

// connection wraps one client socket. Outbound frames go through an unbounded
// FIFO drained by a single writer goroutine, so senders never block and the
// order of frames per client is preserved.
type connection struct {
	id     string
	conn   *websocket.Conn
	logger *slog.Logger

	mu      sync.Mutex
	pending *queue.Queue
	closed  bool

	wake chan struct{}
	done chan struct{}
}

func newConnection(logger *slog.Logger, id string, conn *websocket.Conn) *connection {
	return &connection{
		id:      id,
		conn:    conn,
		logger:  logger.With("connectionID", id),
		pending: queue.New(),
		wake:    make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
}

func (that *connection) enqueue(frame []byte) {
	that.mu.Lock()
	if that.closed {
		that.mu.Unlock()
		return
	}
	that.pending.Add(frame)
	that.mu.Unlock()

	select {
	case that.wake <- struct{}{}:
	default:
	}
}

func (that *connection) next() ([]byte, bool) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.pending.Length() == 0 {
		return nil, false
	}

	frame, ok := that.pending.Remove().([]byte)

	return frame, ok
}

// writePump is the only goroutine writing data frames to the socket.
func (that *connection) writePump() {
	log := that.logger.With("method", "writePump")

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-that.done:
			return
		case <-ticker.C:
			if err := that.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				log.Debug("failed to send ping", "error", err)
				that.close()
				return
			}
		case <-that.wake:
			for {
				frame, ok := that.next()
				if !ok {
					break
				}

				_ = that.conn.SetWriteDeadline(time.Now().Add(writeWait))
				if err := that.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
					log.Debug("failed to write frame", "error", err)
					that.close()
					return
				}
			}
		}
	}
}

// close stops the writer and closes the socket, which also ends the read loop.
func (that *connection) close() {
	that.mu.Lock()
	if that.closed {
		that.mu.Unlock()
		return
	}
	that.closed = true
	close(that.done)
	that.mu.Unlock()

	_ = that.conn.Close()
}

// shutdown tells the peer the server is going away before closing.
func (that *connection) shutdown() {
	message := websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down")
	_ = that.conn.WriteControl(websocket.CloseMessage, message, time.Now().Add(writeWait))

	that.close()
}
