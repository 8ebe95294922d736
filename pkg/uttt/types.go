package uttt

import (
	"errors"
	"fmt"
)

// Player is both a cell value and a macro-board status marker.
// Active and Both never appear as a played cell value.
type Player int8

const (
	NoOne Player = iota
	X
	O
	// Active marks a sub-board the side to move may play into
	Active
	// Both marks a sub-board either side could still win
	Both
)

var (
	ErrIllegalMove     = errors.New("uttt: illegal move")
	ErrInvalidNotation = errors.New("uttt: invalid notation")
)

func (p Player) String() string {
	switch p {
	case X:
		return "X"
	case O:
		return "O"
	case Active:
		return "A"
	case Both:
		return "B"
	}
	return "-"
}

// Opponent of X is O and vice versa, every other value maps to NoOne
func (p Player) Opponent() Player {
	switch p {
	case X:
		return O
	case O:
		return X
	}
	return NoOne
}

// Mark reports whether p is a value that can be played on a cell
func (p Player) Mark() bool {
	return p == X || p == O
}

// Move addresses a single cell of the 9x9 composite board,
// X is the column and Y is the row.
type Move struct {
	X, Y int
}

// NullMove is returned alongside errors, it's never legal
var NullMove = Move{-1, -1}

// Create a move from the sub-board index and the cell index inside it
func NewMove(macroIndex, cellIndex int) Move {
	return Move{
		X: 3*(macroIndex%3) + cellIndex%3,
		Y: 3*(macroIndex/3) + cellIndex/3,
	}
}

// Index of the sub-board this move is played in
func (m Move) MacroIndex() int {
	return m.X/3 + 3*(m.Y/3)
}

// Index of the cell within its sub-board, which is also the
// sub-board the opponent is sent to
func (m Move) CellIndex() int {
	return m.X%3 + 3*(m.Y%3)
}

func (m Move) Valid() bool {
	return m.X >= 0 && m.X < 9 && m.Y >= 0 && m.Y < 9
}

func (m Move) String() string {
	if !m.Valid() {
		return "(none)"
	}
	return fmt.Sprintf("%d %d", m.X, m.Y)
}
