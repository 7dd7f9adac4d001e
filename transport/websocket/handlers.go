package websocket

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-table/internal/entity"
)

// handlePlayerJoin asks for a seat. A payload that is not a string still joins,
// as a spectator.
func (that *Server) handlePlayerJoin(ctx context.Context, conn *connection, msg *Message) error {
	var requested string
	err := json.Unmarshal(msg.Data, &requested)

	that.coordinator.JoinSeat(ctx, conn.id, entity.Seat(requested))

	if err != nil {
		return fmt.Errorf("malformed seat request: %w", err)
	}

	return nil
}

// handleMakeMove forwards a cell index. Anything that is not an integer is dropped.
func (that *Server) handleMakeMove(ctx context.Context, conn *connection, msg *Message) error {
	var cell int
	if err := json.Unmarshal(msg.Data, &cell); err != nil {
		return fmt.Errorf("malformed cell index: %w", err)
	}

	that.coordinator.MakeMove(ctx, conn.id, cell)

	return nil
}
