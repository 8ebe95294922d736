package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/IlikeChooros/uttt-bot/pkg/uttt"
)

var (
	ErrNoLegalMoves   = errors.New("engine: no legal moves, the game is over")
	ErrNotOnTurn      = errors.New("engine: deciding side is not on turn")
	ErrNoCandidates   = errors.New("engine: stage received no candidates")
	ErrRatingMismatch = errors.New("engine: stage returned a wrong number of ratings")
)

// Part of the move budget left unused, covering the protocol round trip
const DefaultSafetyMargin = 20 * time.Millisecond

// Engine narrows the legal moves down with a fixed sequence of rating
// stages, keeping only the best rated moves after each one.
type Engine struct {
	stages         []Stage
	chooser        Chooser
	listener       *Listener
	threads        int
	minSearchRound int
	maxDepth       int
	safetyMargin   time.Duration
	customStages   bool
}

type Option func(*Engine)

// Source of the final tie-break among equally rated moves
func WithChooser(c Chooser) Option {
	return func(e *Engine) {
		if c != nil {
			e.chooser = c
		}
	}
}

func WithListener(l *Listener) Option {
	return func(e *Engine) {
		e.listener = l
	}
}

// Replace the default stages
func WithStages(stages ...Stage) Option {
	return func(e *Engine) {
		e.stages = stages
		e.customStages = true
	}
}

// Parallel root branches of the search stage
func WithThreads(threads int) Option {
	return func(e *Engine) {
		e.threads = max(threads, 1)
	}
}

func WithMinSearchRound(round int) Option {
	return func(e *Engine) {
		e.minSearchRound = round
	}
}

// Limit the search depth, 0 means no limit
func WithMaxDepth(depth int) Option {
	return func(e *Engine) {
		e.maxDepth = max(depth, 0)
	}
}

func WithSafetyMargin(margin time.Duration) Option {
	return func(e *Engine) {
		e.safetyMargin = max(margin, 0)
	}
}

func New(opts ...Option) *Engine {
	e := &Engine{
		chooser:        DefaultChooser(),
		threads:        1,
		minSearchRound: DefaultMinSearchRound,
		safetyMargin:   DefaultSafetyMargin,
	}
	for _, opt := range opts {
		opt(e)
	}

	if !e.customStages {
		e.stages = e.DefaultStages()
	}
	return e
}

// Stages in priority order: forced wins, macro relevance, local tactics,
// destination quality, destination value and the minimum moves tie-break
func (e *Engine) DefaultStages() []Stage {
	return []Stage{
		SearchStage(SearchOptions{
			MinRound: e.minSearchRound,
			Threads:  e.threads,
			MaxDepth: e.maxDepth,
			Listener: e.listener.searchListener(),
		}),
		MacroRelevanceStage(),
		LocalTacticsStage(),
		DestinationPositionStage(),
		NextBoardValueStage(),
		MinMovesTieBreakStage(),
	}
}

func (e *Engine) Stages() []Stage {
	return e.stages
}

// FindBestMove picks the move to play for the assessed state within the budget.
// Stages see a context whose deadline is the budget minus the safety margin.
func (e *Engine) FindBestMove(ctx context.Context, a *AssessedState, budget time.Duration) (uttt.Move, error) {
	start := time.Now()
	if a.State.Turn != a.State.Me {
		return uttt.NullMove, fmt.Errorf("%w: turn %v, deciding for %v", ErrNotOnTurn, a.State.Turn, a.State.Me)
	}

	candidates := a.State.LegalMoves()
	if len(candidates) == 0 {
		return uttt.NullMove, ErrNoLegalMoves
	}
	if len(candidates) == 1 {
		e.decide(candidates, candidates[0], false, start)
		return candidates[0], nil
	}

	ctx, cancel := context.WithTimeout(ctx, max(budget-e.safetyMargin, 0))
	defer cancel()

	for i, stage := range e.stages {
		if len(candidates) == 0 {
			return uttt.NullMove, fmt.Errorf("%w: %s", ErrNoCandidates, stage.Name)
		}

		ratings := stage.Rate(ctx, candidates, a)
		if len(ratings) != len(candidates) {
			return uttt.NullMove, fmt.Errorf("%w: %s rated %d of %d moves",
				ErrRatingMismatch, stage.Name, len(ratings), len(candidates))
		}

		best, survivors := bestRated(candidates, ratings)
		e.listener.invokeStage(StageReport{
			Index:      i + 1,
			Name:       stage.Name,
			Before:     len(candidates),
			Eliminated: len(candidates) - len(survivors),
			Remaining:  len(survivors),
			Best:       best,
			Elapsed:    time.Since(start),
			Moves:      survivors,
		})

		candidates = survivors
		if len(candidates) == 1 {
			e.decide(candidates, candidates[0], false, start)
			return candidates[0], nil
		}
	}

	move := candidates[e.chooser.Intn(len(candidates))]
	e.decide(candidates, move, true, start)
	return move, nil
}

func (e *Engine) decide(candidates []uttt.Move, move uttt.Move, random bool, start time.Time) {
	e.listener.invokeDecision(Decision{
		Move:       move,
		Candidates: candidates,
		Random:     random,
		Elapsed:    time.Since(start),
	})
}

// Moves sharing the highest rating, in their original order
func bestRated(moves []uttt.Move, ratings []Rating) (Rating, []uttt.Move) {
	best := ratings[0]
	for _, r := range ratings[1:] {
		best = max(best, r)
	}

	survivors := make([]uttt.Move, 0, len(moves))
	for i, r := range ratings {
		if r == best {
			survivors = append(survivors, moves[i])
		}
	}
	return best, survivors
}

// Assess the state and find the best move for it
func (e *Engine) Decide(ctx context.Context, state uttt.GameState, budget time.Duration) (uttt.Move, error) {
	return e.FindBestMove(ctx, AssessState(state), budget)
}
