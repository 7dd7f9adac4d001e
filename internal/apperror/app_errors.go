package apperror

import "errors"

var (
	ErrGameFinished     = errors.New("game is already finished")
	ErrGameIsNotStarted = errors.New("game is not started")
	ErrNotYourTurn      = errors.New("it's not your turn")
	ErrNotSeated        = errors.New("connection does not hold a seat")
	ErrCellOccupied     = errors.New("cell is already occupied")
	ErrInvalidCell      = errors.New("invalid cell index")
	ErrSeatTaken        = errors.New("seat is already taken")
	ErrInvalidSeat      = errors.New("invalid seat")
)
