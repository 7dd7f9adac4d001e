package entity

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-table/internal/apperror"
)

const (
	StatusWaiting  = "waiting"
	StatusOngoing  = "ongoing"
	StatusFinished = "finished"
)

const BoardSize = 9

// WinCombos lists the rows, columns and diagonals checked for a win.
var WinCombos = [][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

type Board [BoardSize]Mark

// Filled returns the number of non-empty cells.
func (that Board) Filled() int {
	count := 0
	for _, cell := range that {
		if cell != EmptyCell {
			count++
		}
	}

	return count
}

// Session is the single authoritative game table. The seat <-> connection
// association is kept in both directions so lookups never scan.
type Session struct {
	Board     Board
	Turn      Seat
	Winner    Seat
	Status    string
	MoveCount int

	occupants   map[Seat]string
	connections map[string]Seat
}

// Snapshot is a read-only copy of the session safe to hand out of the coordinator.
type Snapshot struct {
	CurrentPlayer Seat          `json:"currentPlayer"`
	Board         Board         `json:"board"`
	Winner        Seat          `json:"winner"`
	Status        string        `json:"status"`
	MoveCount     int           `json:"moveCount"`
	Seats         map[Seat]bool `json:"seats"`
}

func NewSession() *Session {
	session := &Session{}
	session.Reset()

	return session
}

// Reset returns the session to its empty state.
func (that *Session) Reset() {
	that.Board = Board{}
	that.Turn = SeatNone
	that.Winner = SeatNone
	that.Status = StatusWaiting
	that.MoveCount = 0
	that.occupants = make(map[Seat]string, 2)
	that.connections = make(map[string]Seat, 2)
}

// SeatOf returns the seat held by the connection, or Spectator.
func (that *Session) SeatOf(connectionID string) Seat {
	if seat, ok := that.connections[connectionID]; ok {
		return seat
	}

	return Spectator
}

// Occupant returns the connection bound to the seat.
func (that *Session) Occupant(seat Seat) (string, bool) {
	connectionID, ok := that.occupants[seat]
	return connectionID, ok
}

func (that *Session) IsFull() bool {
	_, first := that.occupants[Seat1]
	_, second := that.occupants[Seat2]

	return first && second
}

// Assign binds the connection to the requested seat. A connection that already
// holds a seat keeps it and gets that seat back.
func (that *Session) Assign(connectionID string, requested Seat) (Seat, error) {
	if seat, ok := that.connections[connectionID]; ok {
		return seat, nil
	}

	if !requested.IsPlayable() {
		return Spectator, fmt.Errorf("%w: %q", apperror.ErrInvalidSeat, requested)
	}

	if _, taken := that.occupants[requested]; taken {
		return Spectator, fmt.Errorf("%w: %s", apperror.ErrSeatTaken, requested)
	}

	that.occupants[requested] = connectionID
	that.connections[connectionID] = requested

	return requested, nil
}

// Start moves a waiting session with both seats filled into play. It reports
// whether the transition happened.
func (that *Session) Start() bool {
	if !that.IsWaiting() || !that.IsFull() {
		return false
	}

	that.Status = StatusOngoing
	that.Turn = Seat1

	return true
}

// Vacate resets the session if the connection holds a seat.
func (that *Session) Vacate(connectionID string) bool {
	if _, ok := that.connections[connectionID]; !ok {
		return false
	}

	that.Reset()

	return true
}

// MakeTurn validates and applies a move by the given connection.
func (that *Session) MakeTurn(connectionID string, cell int) (Seat, error) {
	if err := that.ConfirmOngoingState(); err != nil {
		return SeatNone, err
	}

	seat := that.SeatOf(connectionID)
	if !seat.IsPlayable() {
		return SeatNone, apperror.ErrNotSeated
	}

	if seat != that.Turn {
		return SeatNone, apperror.ErrNotYourTurn
	}

	if cell < 0 || cell >= len(that.Board) {
		return SeatNone, fmt.Errorf("%w: cell %d", apperror.ErrInvalidCell, cell)
	}

	if that.Board[cell] != EmptyCell {
		return SeatNone, fmt.Errorf("%w: cell %d", apperror.ErrCellOccupied, cell)
	}

	that.Board[cell] = seat.Mark()
	that.MoveCount++

	that.UpdateGameState(seat)

	return seat, nil
}

// DetermineGameResult returns the winning seat, if any, and whether the game is over.
func (that *Session) DetermineGameResult() (Seat, bool) {
	for _, combo := range WinCombos {
		a, b, c := that.Board[combo[0]], that.Board[combo[1]], that.Board[combo[2]]
		if a != EmptyCell && a == b && b == c {
			return SeatOfMark(a), true
		}
	}

	return SeatNone, that.MoveCount == BoardSize
}

// UpdateGameState concludes the game or hands the turn to the opponent of mover.
func (that *Session) UpdateGameState(mover Seat) {
	winner, finished := that.DetermineGameResult()
	if !finished {
		that.Turn = mover.Opponent()
		return
	}

	that.Winner = winner
	that.Status = StatusFinished
	that.Turn = SeatNone
}

func (that *Session) IsFinished() bool {
	return that.Status == StatusFinished
}

func (that *Session) IsOngoing() bool {
	return that.Status == StatusOngoing
}

func (that *Session) IsWaiting() bool {
	return that.Status == StatusWaiting
}

// IsTie reports a concluded game without a winner.
func (that *Session) IsTie() bool {
	return that.IsFinished() && that.Winner == SeatNone
}

func (that *Session) ConfirmOngoingState() error {
	switch {
	case that.IsWaiting():
		return apperror.ErrGameIsNotStarted
	case that.IsFinished():
		return apperror.ErrGameFinished
	default:
		return nil
	}
}

func (that *Session) Snapshot() Snapshot {
	seats := map[Seat]bool{Seat1: false, Seat2: false}
	for seat := range that.occupants {
		seats[seat] = true
	}

	return Snapshot{
		CurrentPlayer: that.Turn,
		Board:         that.Board,
		Winner:        that.Winner,
		Status:        that.Status,
		MoveCount:     that.MoveCount,
		Seats:         seats,
	}
}
