package websocket

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-table/internal/tictactoe"
)

func newTestServer(t *testing.T) (string, *Hub) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	hub := NewHub(logger)
	coordinator := tictactoe.NewCoordinator(logger, hub, nil)

	srv := httptest.NewServer(New(logger, hub, coordinator))
	t.Cleanup(srv.Close)

	return "ws" + strings.TrimPrefix(srv.URL, "http"), hub
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = conn.Close()
	})

	return conn
}

func send(t *testing.T, conn *websocket.Conn, event string, data any) {
	t.Helper()

	raw, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, conn.WriteJSON(Message{Event: event, Data: raw}))
}

func receive(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	var message Message
	require.NoError(t, conn.ReadJSON(&message))

	return message
}

func waitForConnections(t *testing.T, hub *Hub, count int) {
	t.Helper()

	require.Eventually(t, func() bool {
		return hub.Count() == count
	}, 5*time.Second, 10*time.Millisecond)
}

func TestServer_GameFlow(t *testing.T) {
	url, hub := newTestServer(t)

	// Given: two players and a spectator connected
	first := dial(t, url)
	second := dial(t, url)
	watcher := dial(t, url)
	waitForConnections(t, hub, 3)

	// When: both players join
	send(t, first, tictactoe.EventPlayerJoin, "player1")
	assignment := receive(t, first)
	assert.Equal(t, tictactoe.EventPlayerAssignment, assignment.Event)
	assert.JSONEq(t, `"player1"`, string(assignment.Data))

	send(t, second, tictactoe.EventPlayerJoin, "player2")
	assignment = receive(t, second)
	assert.Equal(t, tictactoe.EventPlayerAssignment, assignment.Event)
	assert.JSONEq(t, `"player2"`, string(assignment.Data))

	// Then: everyone receives gameStart with an empty board
	for _, conn := range []*websocket.Conn{first, second, watcher} {
		start := receive(t, conn)
		assert.Equal(t, tictactoe.EventGameStart, start.Event)
		assert.JSONEq(t, `{"currentPlayer":"player1","board":[null,null,null,null,null,null,null,null,null]}`, string(start.Data))
	}

	// When: the spectator asks for a seat
	send(t, watcher, tictactoe.EventPlayerJoin, "player1")

	// Then: it is told it spectates
	assignment = receive(t, watcher)
	assert.JSONEq(t, `"spectator"`, string(assignment.Data))

	// When: player1 wins on the top row
	moves := []struct {
		conn *websocket.Conn
		cell int
	}{{first, 0}, {second, 4}, {first, 1}, {second, 3}, {first, 2}}

	for _, move := range moves {
		send(t, move.conn, tictactoe.EventMakeMove, move.cell)
		for _, conn := range []*websocket.Conn{first, second, watcher} {
			assert.Equal(t, tictactoe.EventGameUpdate, receive(t, conn).Event)
		}
	}

	// Then: gameEnd follows the final update
	for _, conn := range []*websocket.Conn{first, second, watcher} {
		end := receive(t, conn)
		assert.Equal(t, tictactoe.EventGameEnd, end.Event)
		assert.JSONEq(t, `{"winner":"player1"}`, string(end.Data))
	}
}

func TestServer_Disconnect(t *testing.T) {
	url, hub := newTestServer(t)

	// Given: a started game watched by a spectator
	first := dial(t, url)
	second := dial(t, url)
	watcher := dial(t, url)
	waitForConnections(t, hub, 3)

	send(t, first, tictactoe.EventPlayerJoin, "player1")
	receive(t, first)
	send(t, second, tictactoe.EventPlayerJoin, "player2")
	receive(t, second)
	for _, conn := range []*websocket.Conn{first, second, watcher} {
		receive(t, conn)
	}

	// When: player1 drops
	require.NoError(t, first.Close())

	// Then: the others are told
	for _, conn := range []*websocket.Conn{second, watcher} {
		message := receive(t, conn)
		assert.Equal(t, tictactoe.EventPlayerDisconnected, message.Event)
		assert.Empty(t, message.Data)
	}

	// And: the seat is free again
	send(t, watcher, tictactoe.EventPlayerJoin, "player1")
	assignment := receive(t, watcher)
	assert.JSONEq(t, `"player1"`, string(assignment.Data))
}

func TestServer_MalformedPayloads(t *testing.T) {
	url, hub := newTestServer(t)

	conn := dial(t, url)
	waitForConnections(t, hub, 1)

	// When: the join payload is not a seat label
	send(t, conn, tictactoe.EventPlayerJoin, map[string]int{"seat": 1})

	// Then: the connection spectates
	assignment := receive(t, conn)
	assert.Equal(t, tictactoe.EventPlayerAssignment, assignment.Event)
	assert.JSONEq(t, `"spectator"`, string(assignment.Data))

	// When: garbage and a malformed move arrive, followed by a valid join
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("not json")))
	send(t, conn, tictactoe.EventMakeMove, "center")
	send(t, conn, "unknownEvent", nil)

	second := dial(t, url)
	waitForConnections(t, hub, 2)
	send(t, second, tictactoe.EventPlayerJoin, "player2")

	// Then: the connection is still served and the next frame is unrelated to the garbage
	assignment = receive(t, second)
	assert.JSONEq(t, `"player2"`, string(assignment.Data))
}
