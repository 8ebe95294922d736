package uttt

// SubBoard is a single 3x3 board, cells are ordered row-major.
// It's a value type, Play returns a modified copy.
type SubBoard [9]Player

// Wins holds horizontal, vertical and diagonal triples of cell indexes.
// The same table is used for the macro board.
var Wins = [8][3]int{
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8},
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8},
	{0, 4, 8}, {2, 4, 6},
}

// Returns the player holding three in a row, or NoOne
func (b SubBoard) Winner() Player {
	for _, w := range Wins {
		if p := b[w[0]]; p.Mark() && p == b[w[1]] && p == b[w[2]] {
			return p
		}
	}
	return NoOne
}

// Full reports whether every cell is occupied
func (b SubBoard) Full() bool {
	for _, c := range b {
		if c == NoOne {
			return false
		}
	}
	return true
}

// Decided reports whether the board is won or has no empty cells left
func (b SubBoard) Decided() bool {
	return b.Winner() != NoOne || b.Full()
}

// Empty cells in ascending order, none once the board has a winner
func (b SubBoard) LegalMoves() []int {
	if b.Winner() != NoOne {
		return nil
	}

	moves := make([]int, 0, 9)
	for i, c := range b {
		if c == NoOne {
			moves = append(moves, i)
		}
	}
	return moves
}

// Play returns a copy with the cell set to the given player
func (b SubBoard) Play(cell int, p Player) SubBoard {
	b[cell] = p
	return b
}

// WinnableBy classifies which side can still complete any triple.
// Must be called on a board without a winner.
func (b SubBoard) WinnableBy() Player {
	xOpen, oOpen := false, false
	for _, w := range Wins {
		hasX, hasO := false, false
		for _, c := range w {
			switch b[c] {
			case X:
				hasX = true
			case O:
				hasO = true
			}
		}

		if !hasO {
			xOpen = true
		}
		if !hasX {
			oOpen = true
		}
		if xOpen && oOpen {
			return Both
		}
	}

	switch {
	case xOpen:
		return X
	case oOpen:
		return O
	}
	return NoOne
}

// Smallest number of marks the player still needs to complete a triple
// not blocked by the opponent. 0 when the board has a winner or no
// triple is open for the player.
func (b SubBoard) MinimumMovesToWin(p Player) int {
	if b.Winner() != NoOne {
		return 0
	}

	opp := p.Opponent()
	result := 0
	for _, w := range Wins {
		needed := 3
		blocked := false
		for _, c := range w {
			switch b[c] {
			case p:
				needed--
			case opp:
				blocked = true
			}
		}

		if !blocked && (result == 0 || needed < result) {
			result = needed
		}
	}
	return result
}

// Cells completing a triple for the player right away, ascending, no duplicates
func (b SubBoard) WinningMoves(p Player) []int {
	var seen [9]bool
	for _, w := range Wins {
		own, empty := 0, -1
		for _, c := range w {
			switch b[c] {
			case p:
				own++
			case NoOne:
				empty = c
			}
		}

		if own == 2 && empty != -1 {
			seen[empty] = true
		}
	}

	moves := make([]int, 0, 3)
	for i, ok := range seen {
		if ok {
			moves = append(moves, i)
		}
	}
	return moves
}

// Empty cells of every triple holding exactly one of the player's marks
// and two empty cells. A cell appears once per triple it sets up.
func (b SubBoard) SetupMoves(p Player) []int {
	moves := make([]int, 0, 8)
	for _, w := range Wins {
		own := 0
		empties := make([]int, 0, 2)
		for _, c := range w {
			switch b[c] {
			case p:
				own++
			case NoOne:
				empties = append(empties, c)
			}
		}

		if own == 1 && len(empties) == 2 {
			moves = append(moves, empties...)
		}
	}
	return moves
}
