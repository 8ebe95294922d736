package uttt

import (
	"fmt"
	"strings"
)

const StartingNotation = "9/9/9/9/9/9/9/9/9 x -"

// Notation encodes the state much like FEN does for chess:
//
//	<sub-board 0>/<sub-board 1>/.../<sub-board 8> <turn> <active index>
//
// where every sub-board is written cell by cell with 'x' and 'o' for marks
// and a digit for a run of empty cells, <turn> is 'x' or 'o' and
// <active index> is the only active sub-board (0-8) or '-' for free choice.
//
// Examples:
//
// * 9/9/9/9/9/9/9/9/9 x -
//
// * 9/9/9/7x1/4xo3/8x/9/4o4/o8 x 0
func (s GameState) Notation() string {
	builder := strings.Builder{}

	for bi, board := range s.SubBoards {
		counter := 0
		for _, c := range board {
			if !c.Mark() {
				counter++
				continue
			}

			if counter > 0 {
				builder.WriteByte('0' + byte(counter))
				counter = 0
			}
			if c == X {
				builder.WriteByte('x')
			} else {
				builder.WriteByte('o')
			}
		}

		if counter > 0 {
			builder.WriteByte('0' + byte(counter))
		}
		if bi != 8 {
			builder.WriteByte('/')
		}
	}

	builder.WriteByte(' ')
	if s.Turn == O {
		builder.WriteByte('o')
	} else {
		builder.WriteByte('x')
	}

	builder.WriteByte(' ')
	active := -1
	if s.Macro.Count(Active) == 1 {
		for i, status := range s.Macro {
			if status == Active {
				active = i
			}
		}
	}
	if active == -1 {
		builder.WriteByte('-')
	} else {
		builder.WriteByte('0' + byte(active))
	}

	return builder.String()
}

// ParseNotation builds the state described by the notation string,
// see GameState.Notation for the format. The decision perspective is
// set to the side to move.
func ParseNotation(notation string) (GameState, error) {
	if notation == "startpos" {
		notation = StartingNotation
	}

	fields := strings.Fields(notation)
	if len(fields) != 3 {
		return GameState{}, fmt.Errorf("%w: expected 3 sections, got %d", ErrInvalidNotation, len(fields))
	}

	groups := strings.Split(fields[0], "/")
	if len(groups) != 9 {
		return GameState{}, fmt.Errorf("%w: expected 9 sub-boards, got %d", ErrInvalidNotation, len(groups))
	}

	var boards [9]SubBoard
	for bi, group := range groups {
		cell := 0
		for i, v := range group {
			switch {
			case v == 'x' || v == 'o':
				if cell >= 9 {
					return GameState{}, fmt.Errorf("%w: too many cells in sub-board %d", ErrInvalidNotation, bi)
				}
				if v == 'x' {
					boards[bi][cell] = X
				} else {
					boards[bi][cell] = O
				}
				cell++
			case '1' <= v && v <= '9':
				cell += int(v - '0')
				if cell > 9 {
					return GameState{}, fmt.Errorf("%w: invalid skip in sub-board %d at %d", ErrInvalidNotation, bi, i)
				}
			default:
				return GameState{}, fmt.Errorf("%w: unexpected token %q in sub-board %d", ErrInvalidNotation, v, bi)
			}
		}

		if cell != 9 {
			return GameState{}, fmt.Errorf("%w: sub-board %d has %d cells", ErrInvalidNotation, bi, cell)
		}
	}

	var turn Player
	switch fields[1] {
	case "x":
		turn = X
	case "o":
		turn = O
	default:
		return GameState{}, fmt.Errorf("%w: invalid side %q", ErrInvalidNotation, fields[1])
	}

	var macro MacroStatus
	switch v := fields[2]; {
	case v == "-":
	case len(v) == 1 && v[0] >= '0' && v[0] <= '8':
		idx := int(v[0] - '0')
		if boards[idx].Decided() {
			return GameState{}, fmt.Errorf("%w: active sub-board %d is decided", ErrInvalidNotation, idx)
		}
		macro[idx] = Active
	default:
		return GameState{}, fmt.Errorf("%w: invalid active index %q", ErrInvalidNotation, v)
	}

	state := NewState(boards, macro, turn, turn, 1)
	state.Round = state.Plies/2 + 1
	return state, nil
}
