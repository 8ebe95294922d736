package uttt

import "fmt"

// MacroStatus holds, per sub-board, its winner, NoOne when it's drawn or
// not playable right now, or Active when the side to move may target it.
type MacroStatus [9]Player

// Count the sub-boards with the given status
func (m MacroStatus) Count(p Player) int {
	n := 0
	for _, s := range m {
		if s == p {
			n++
		}
	}
	return n
}

// Player holding three sub-boards in a row, or NoOne
func (m MacroStatus) Winner() Player {
	for _, w := range Wins {
		if p := m[w[0]]; p.Mark() && p == m[w[1]] && p == m[w[2]] {
			return p
		}
	}
	return NoOne
}

// GameState is a full snapshot of one turn. It's never mutated,
// Apply returns a new value.
type GameState struct {
	SubBoards [9]SubBoard
	Macro     MacroStatus
	// Side to move
	Turn Player
	// Starts at 1, increases after both sides moved
	Round int
	// Number of marks on the board
	Plies  int
	Winner Player
	// The side the decision is made for
	Me Player
}

// Empty board, X to move, every sub-board active
func NewGame() GameState {
	s := GameState{
		Turn:  X,
		Round: 1,
		Me:    X,
	}
	for i := range s.Macro {
		s.Macro[i] = Active
	}
	return s
}

// Build a state from a board snapshot, ply count and winners are recomputed
// from the boards. When no sub-board is marked active and the game isn't
// over, every undecided sub-board becomes active.
func NewState(subBoards [9]SubBoard, macro MacroStatus, turn, me Player, round int) GameState {
	s := GameState{
		SubBoards: subBoards,
		Turn:      turn,
		Round:     max(round, 1),
		Me:        me,
	}

	for i, b := range subBoards {
		for _, c := range b {
			if c.Mark() {
				s.Plies++
			}
		}

		switch {
		case b.Winner() != NoOne:
			s.Macro[i] = b.Winner()
		case b.Full():
			s.Macro[i] = NoOne
		case macro[i] == Active:
			s.Macro[i] = Active
		}
	}

	s.Winner = s.Macro.Winner()
	if s.Winner == NoOne && s.Macro.Count(Active) == 0 {
		s.freeChoice()
	}
	return s
}

// Opponent of the side the decision is made for
func (s GameState) Opponent() Player {
	return s.Me.Opponent()
}

// Perspective returns a copy deciding for the given side
func (s GameState) Perspective(me Player) GameState {
	s.Me = me
	return s
}

// Mark every undecided sub-board active
func (s *GameState) freeChoice() {
	for i, b := range s.SubBoards {
		if !b.Decided() {
			s.Macro[i] = Active
		}
	}
}

// Apply plays the move for the side to move and returns the resulting state,
// the receiver is left untouched. Legality isn't checked, see MakeLegalMove.
func (s GameState) Apply(m Move) GameState {
	player := s.Turn
	macroIndex, cellIndex := m.MacroIndex(), m.CellIndex()

	s.SubBoards[macroIndex] = s.SubBoards[macroIndex].Play(cellIndex, player)

	// Clear and reassign the active flags
	for i := range s.Macro {
		if s.Macro[i] == Active {
			s.Macro[i] = NoOne
		}
	}

	if s.SubBoards[macroIndex].Winner() == player {
		s.Macro[macroIndex] = player
	}

	if s.SubBoards[cellIndex].Decided() {
		s.freeChoice()
	} else {
		s.Macro[cellIndex] = Active
	}

	s.Plies++
	if s.Plies%2 == 0 {
		s.Round++
	}

	// Only the mover can complete a macro line, and not before 9 plies
	if s.Plies >= 9 {
		for _, w := range Wins {
			if s.Macro[w[0]] == player && s.Macro[w[1]] == player && s.Macro[w[2]] == player {
				s.Winner = player
				break
			}
		}
	}

	s.Turn = player.Opponent()
	return s
}

// Every empty cell of every active sub-board, in sub-board then cell order
func (s GameState) LegalMoves() []Move {
	if s.Winner != NoOne {
		return nil
	}

	moves := make([]Move, 0, 81)
	for mi, status := range s.Macro {
		if status != Active {
			continue
		}
		for _, ci := range s.SubBoards[mi].LegalMoves() {
			moves = append(moves, NewMove(mi, ci))
		}
	}
	return moves
}

// IsLegal reports whether the side to move may play m
func (s GameState) IsLegal(m Move) bool {
	if s.Winner != NoOne || !m.Valid() {
		return false
	}

	mi, ci := m.MacroIndex(), m.CellIndex()
	return s.Macro[mi] == Active && s.SubBoards[mi][ci] == NoOne &&
		s.SubBoards[mi].Winner() == NoOne
}

// Play the move if it's legal
func (s GameState) MakeLegalMove(m Move) (GameState, error) {
	if !s.IsLegal(m) {
		return s, fmt.Errorf("%w: %v", ErrIllegalMove, m)
	}
	return s.Apply(m), nil
}

// Over reports whether the game has a winner or no move can be made
func (s GameState) Over() bool {
	return s.Winner != NoOne || s.Macro.Count(Active) == 0
}

// Draw reports whether the game ended without a winner
func (s GameState) Draw() bool {
	return s.Winner == NoOne && s.Over()
}

// Cell value at the composite board coordinates
func (s GameState) At(x, y int) Player {
	m := Move{x, y}
	return s.SubBoards[m.MacroIndex()][m.CellIndex()]
}
