package engine

import (
	"context"
	"slices"

	"github.com/IlikeChooros/uttt-bot/pkg/uttt"
)

// Rating of a candidate move within a single stage, higher is better.
// Ratings are never compared across stages.
type Rating int

// Search stage, from the deciding side's perspective
const (
	RatingLoss      Rating = -1
	RatingUndecided Rating = 0
	RatingWin       Rating = 1
)

// Local tactics stage
const (
	RatingSubBoardWin Rating = 100
	RatingBlock       Rating = 50
)

// Destination position stage, winnability of the sub-board the opponent is sent to
const (
	RatingFreeChoice Rating = -1
	RatingContested  Rating = 0
	RatingOneSided   Rating = 1
	RatingDeadBoard  Rating = 2
)

// Next board value stage
const RatingNextFreeChoice Rating = -20

// Minimum moves tie-break treats a blocked sub-board as needing more
// marks than any open one
const unreachableMoves = 4

// RateFunc rates every candidate, the result has one rating per move in order
type RateFunc func(ctx context.Context, moves []uttt.Move, a *AssessedState) []Rating

// Stage is a single step of the elimination pipeline
type Stage struct {
	Name string
	Rate RateFunc
}

// Sub-board the opponent is sent to by the move, as it looks after the move
func destination(a *AssessedState, m uttt.Move) (int, uttt.SubBoard) {
	next := m.CellIndex()
	board := a.State.SubBoards[next]
	if m.MacroIndex() == next {
		board = board.Play(next, a.State.Turn)
	}
	return next, board
}

// Prefer sub-boards lying on the most open macro lines, for either side
func MacroRelevanceStage() Stage {
	return Stage{
		Name: "macro-relevance",
		Rate: func(_ context.Context, moves []uttt.Move, a *AssessedState) []Rating {
			ratings := make([]Rating, len(moves))
			for i, m := range moves {
				mi := m.MacroIndex()
				ratings[i] = Rating(a.MacroLineOffensive[mi] + a.MacroLineDefensive[mi])
			}
			return ratings
		},
	}
}

// Rate moves as a plain tic-tac-toe move within their sub-board: winning it
// beats everything, otherwise blocking the opponent's immediate win beats
// setting up or denying two in a row.
func LocalTacticsStage() Stage {
	return Stage{
		Name: "local-tactics",
		Rate: func(_ context.Context, moves []uttt.Move, a *AssessedState) []Rating {
			ratings := make([]Rating, len(moves))
			me, opp := a.State.Me, a.State.Opponent()

			for i, m := range moves {
				board := a.State.SubBoards[m.MacroIndex()]
				cell := m.CellIndex()

				wins := board.WinningMoves(me)
				if slices.Contains(wins, cell) {
					ratings[i] = RatingSubBoardWin
					continue
				}
				if len(wins) != 0 {
					continue
				}

				ratings[i] += Rating(count(board.SetupMoves(me), cell))
				ratings[i] += Rating(count(board.SetupMoves(opp), cell))
				if slices.Contains(board.WinningMoves(opp), cell) {
					ratings[i] += RatingBlock
				}
			}
			return ratings
		},
	}
}

// Prefer sending the opponent to a sub-board nobody can win anymore,
// sending it to a decided sub-board gives it a free choice
func DestinationPositionStage() Stage {
	return Stage{
		Name: "destination-position",
		Rate: func(_ context.Context, moves []uttt.Move, a *AssessedState) []Rating {
			ratings := make([]Rating, len(moves))
			for i, m := range moves {
				_, board := destination(a, m)
				if board.Decided() {
					ratings[i] = RatingFreeChoice
					continue
				}

				switch board.WinnableBy() {
				case uttt.Both:
					ratings[i] = RatingContested
				case uttt.X, uttt.O:
					ratings[i] = RatingOneSided
				default:
					ratings[i] = RatingDeadBoard
				}
			}
			return ratings
		},
	}
}

// Prefer sending the opponent to the least valuable sub-board
func NextBoardValueStage() Stage {
	return Stage{
		Name: "next-board-value",
		Rate: func(_ context.Context, moves []uttt.Move, a *AssessedState) []Rating {
			ratings := make([]Rating, len(moves))
			for i, m := range moves {
				next, board := destination(a, m)
				if board.Decided() {
					ratings[i] = RatingNextFreeChoice
					continue
				}
				ratings[i] = -Rating(a.MacroLineOffensive[next] + a.MacroLineDefensive[next])
			}
			return ratings
		},
	}
}

// Prefer destinations where the opponent is further from winning and
// the deciding side is closer
func MinMovesTieBreakStage() Stage {
	return Stage{
		Name: "min-moves-tiebreak",
		Rate: func(_ context.Context, moves []uttt.Move, a *AssessedState) []Rating {
			ratings := make([]Rating, len(moves))
			for i, m := range moves {
				next, board := destination(a, m)
				if board.Decided() {
					continue
				}

				against, forMe := a.MinMovesAgainst[next], a.MinMovesFor[next]
				if next == m.MacroIndex() {
					against = board.MinimumMovesToWin(a.State.Opponent())
					forMe = board.MinimumMovesToWin(a.State.Me)
				}
				if against == 0 {
					against = unreachableMoves
				}
				if forMe == 0 {
					forMe = unreachableMoves
				}
				ratings[i] = Rating(against - forMe)
			}
			return ratings
		},
	}
}

func count(cells []int, cell int) int {
	n := 0
	for _, c := range cells {
		if c == cell {
			n++
		}
	}
	return n
}
