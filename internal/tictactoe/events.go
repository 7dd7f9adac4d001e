package tictactoe

import "github.com/rocketscienceinc/tictactoe-table/internal/entity"

// Client -> server events.
const (
	EventPlayerJoin = "playerJoin"
	EventMakeMove   = "makeMove"
)

// Server -> client events.
const (
	EventPlayerAssignment   = "playerAssignment"
	EventGameStart          = "gameStart"
	EventGameUpdate         = "gameUpdate"
	EventGameEnd            = "gameEnd"
	EventPlayerDisconnected = "playerDisconnected"
)

type GameStartPayload struct {
	CurrentPlayer entity.Seat  `json:"currentPlayer"`
	Board         entity.Board `json:"board"`
}

type GameUpdatePayload struct {
	CurrentPlayer entity.Seat  `json:"currentPlayer"`
	Board         entity.Board `json:"board"`
	Winner        entity.Seat  `json:"winner"`
}

type GameEndPayload struct {
	Winner entity.Seat `json:"winner"`
}
