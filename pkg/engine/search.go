package engine

import (
	"context"

	"github.com/IlikeChooros/uttt-bot/pkg/minimax"
	"github.com/IlikeChooros/uttt-bot/pkg/uttt"
)

// DefaultMinSearchRound is the first round the search stage runs in,
// earlier the tree is too wide to prove anything in time
const DefaultMinSearchRound = 9

// Win/loss only evaluation of full game states from the given side's perspective
func gameOperations(me uttt.Player) minimax.Funcs[uttt.GameState] {
	return minimax.Funcs[uttt.GameState]{
		EvaluateFn: func(s uttt.GameState) minimax.Score {
			switch s.Winner {
			case uttt.NoOne:
				return minimax.Score(RatingUndecided)
			case me:
				return minimax.Score(RatingWin)
			}
			return minimax.Score(RatingLoss)
		},
		ChildrenFn: func(s uttt.GameState) []uttt.GameState {
			moves := s.LegalMoves()
			children := make([]uttt.GameState, len(moves))
			for i, m := range moves {
				children[i] = s.Apply(m)
			}
			return children
		},
	}
}

// SearchOptions configures the forced win/loss detection stage
type SearchOptions struct {
	// Rounds before this one rate every move as undecided
	MinRound int
	// Parallel root branches
	Threads int
	// Deepening limit, 0 for none
	MaxDepth int
	Listener minimax.StatsListener
}

// SearchStage rates moves with a time-bounded alpha-beta search over the
// whole game: RatingWin for a forced win, at most RatingLoss for a forced
// loss and RatingUndecided otherwise. The search runs until the context deadline.
func SearchStage(opts SearchOptions) Stage {
	return Stage{
		Name: "minimax",
		Rate: func(ctx context.Context, moves []uttt.Move, a *AssessedState) []Rating {
			ratings := make([]Rating, len(moves))
			if a.State.Round < opts.MinRound {
				return ratings
			}

			limits := minimax.DefaultLimits().SetThreads(opts.Threads)
			if opts.MaxDepth > 0 {
				limits.SetDepth(opts.MaxDepth)
			}

			engine := minimax.New[uttt.GameState](gameOperations(a.State.Me),
				minimax.Score(RatingLoss), minimax.Score(RatingWin))
			engine.SetLimits(limits)
			engine.SetContext(ctx)
			engine.SetListener(opts.Listener)

			children := make([]uttt.GameState, len(moves))
			for i, m := range moves {
				children[i] = a.State.Apply(m)
			}

			results, err := engine.EvaluateChildrenUntilTimeout(children)
			if err != nil {
				return ratings
			}
			for i, r := range results {
				ratings[i] = searchRating(r)
			}
			return ratings
		},
	}
}

// Forced losses are ordered by the depth they were proven at, the latest
// loss rates highest, all of them stay below RatingUndecided
func searchRating(r minimax.Result) Rating {
	if Rating(r.Score) != RatingLoss {
		return Rating(r.Score)
	}
	return RatingLoss - Rating(max(lossHorizon-r.Depth, 0))
}

// Longest possible game in plies
const lossHorizon = 81
