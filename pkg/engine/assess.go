package engine

import "github.com/IlikeChooros/uttt-bot/pkg/uttt"

// AssessedState is a read-only view of a GameState, computed once per
// decision and shared by every rating stage. "For" and "offensive" refer to
// the side the decision is made for (State.Me), "against" and "defensive"
// to its opponent.
type AssessedState struct {
	State uttt.GameState

	// Which sides can still win the game: X, O, Both or NoOne
	PotentialWinners uttt.Player

	// Winner of a won sub-board, otherwise who can still win it
	SubBoardWinnability [9]uttt.Player

	// Minimum marks needed to win each sub-board, 0 when it's decided or blocked
	MinMovesFor     [9]int
	MinMovesAgainst [9]int

	// Number of still open macro lines passing through each sub-board
	MacroLineOffensive [9]int
	MacroLineDefensive [9]int

	// Per macro line, marks needed to win all three of its sub-boards,
	// 0 when the line is closed for that side
	MinMovesToWin  [8]int
	MinMovesToLose [8]int

	// Empty cells left on playable sub-boards
	MaxMovesRemaining int
}

func oneOf(p uttt.Player, set ...uttt.Player) bool {
	for _, s := range set {
		if p == s {
			return true
		}
	}
	return false
}

// AssessState derives the per-turn facts used by the rating stages
func AssessState(state uttt.GameState) *AssessedState {
	a := &AssessedState{State: state}
	me, opp := state.Me, state.Opponent()

	for i, b := range state.SubBoards {
		a.MaxMovesRemaining += len(b.LegalMoves())
		a.MinMovesFor[i] = b.MinimumMovesToWin(me)
		a.MinMovesAgainst[i] = b.MinimumMovesToWin(opp)

		if w := b.Winner(); w != uttt.NoOne {
			a.SubBoardWinnability[i] = w
		} else {
			a.SubBoardWinnability[i] = b.WinnableBy()
		}
	}

	var offensive, defensive [8]bool
	for wi, w := range uttt.Wins {
		x, y, z := a.SubBoardWinnability[w[0]], a.SubBoardWinnability[w[1]], a.SubBoardWinnability[w[2]]

		switch {
		case x == uttt.NoOne || y == uttt.NoOne || z == uttt.NoOne:
			continue
		case x == uttt.Both && y == uttt.Both && z == uttt.Both:
			offensive[wi], defensive[wi] = true, true
			a.PotentialWinners = uttt.Both
		case oneOf(x, uttt.X, uttt.Both) && oneOf(y, uttt.X, uttt.Both) && oneOf(z, uttt.X, uttt.Both):
			offensive[wi], defensive[wi] = me == uttt.X, me != uttt.X
			a.PotentialWinners = addWinner(a.PotentialWinners, uttt.X)
		case oneOf(x, uttt.O, uttt.Both) && oneOf(y, uttt.O, uttt.Both) && oneOf(z, uttt.O, uttt.Both):
			offensive[wi], defensive[wi] = me == uttt.O, me != uttt.O
			a.PotentialWinners = addWinner(a.PotentialWinners, uttt.O)
		}

		for _, idx := range w {
			if offensive[wi] {
				a.MacroLineOffensive[idx]++
			}
			if defensive[wi] {
				a.MacroLineDefensive[idx]++
			}
		}
	}

	for wi, w := range uttt.Wins {
		if a.MacroLineOffensive[w[0]] > 0 && a.MacroLineOffensive[w[1]] > 0 && a.MacroLineOffensive[w[2]] > 0 {
			a.MinMovesToWin[wi] = a.MinMovesFor[w[0]] + a.MinMovesFor[w[1]] + a.MinMovesFor[w[2]]
		}
		if a.MacroLineDefensive[w[0]] > 0 && a.MacroLineDefensive[w[1]] > 0 && a.MacroLineDefensive[w[2]] > 0 {
			a.MinMovesToLose[wi] = a.MinMovesAgainst[w[0]] + a.MinMovesAgainst[w[1]] + a.MinMovesAgainst[w[2]]
		}
	}

	return a
}

func addWinner(current, p uttt.Player) uttt.Player {
	switch current {
	case uttt.NoOne, p:
		return p
	}
	return uttt.Both
}
