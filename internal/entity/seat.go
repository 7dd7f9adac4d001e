package entity

import (
	"bytes"
	"encoding/json"
)

// Seat identifies one of the two player slots. Spectator is the role handed to
// every connection that does not hold a seat.
type Seat string

const (
	SeatNone  Seat = ""
	Seat1     Seat = "player1"
	Seat2     Seat = "player2"
	Spectator Seat = "spectator"
)

// Mark is the content of a single board cell.
type Mark string

const (
	EmptyCell Mark = ""
	MarkX     Mark = "X"
	MarkO     Mark = "O"
)

var jsonNull = []byte("null")

// IsPlayable reports whether the seat is allowed to place marks.
func (that Seat) IsPlayable() bool {
	return that == Seat1 || that == Seat2
}

// Mark returns the mark the seat places on the board.
func (that Seat) Mark() Mark {
	switch that {
	case Seat1:
		return MarkX
	case Seat2:
		return MarkO
	default:
		return EmptyCell
	}
}

// Opponent returns the other playable seat.
func (that Seat) Opponent() Seat {
	switch that {
	case Seat1:
		return Seat2
	case Seat2:
		return Seat1
	default:
		return SeatNone
	}
}

// MarshalJSON encodes SeatNone as null.
func (that Seat) MarshalJSON() ([]byte, error) {
	if that == SeatNone {
		return jsonNull, nil
	}

	return json.Marshal(string(that))
}

func (that *Seat) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, jsonNull) {
		*that = SeatNone
		return nil
	}

	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*that = Seat(raw)

	return nil
}

// SeatOfMark maps a mark back to the seat that places it.
func SeatOfMark(mark Mark) Seat {
	switch mark {
	case MarkX:
		return Seat1
	case MarkO:
		return Seat2
	default:
		return SeatNone
	}
}

// MarshalJSON encodes an empty cell as null.
func (that Mark) MarshalJSON() ([]byte, error) {
	if that == EmptyCell {
		return jsonNull, nil
	}

	return json.Marshal(string(that))
}

func (that *Mark) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, jsonNull) {
		*that = EmptyCell
		return nil
	}

	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*that = Mark(raw)

	return nil
}
