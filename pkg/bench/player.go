package bench

import (
	"context"
	"fmt"
	"time"

	"github.com/IlikeChooros/uttt-bot/pkg/engine"
	"github.com/IlikeChooros/uttt-bot/pkg/uttt"
	"lukechampine.com/frand"
)

// Player picks moves in the arena. A player is shared by every worker,
// so Choose may be called concurrently.
type Player interface {
	Name() string
	Choose(ctx context.Context, state uttt.GameState, movetime time.Duration) (uttt.Move, error)
}

// EnginePlayer plays the staged move pipeline
type EnginePlayer struct {
	name   string
	engine *engine.Engine
}

func NewEnginePlayer(name string, e *engine.Engine) *EnginePlayer {
	return &EnginePlayer{name: name, engine: e}
}

func (p *EnginePlayer) Name() string {
	return p.name
}

func (p *EnginePlayer) Choose(ctx context.Context, state uttt.GameState, movetime time.Duration) (uttt.Move, error) {
	return p.engine.Decide(ctx, state.Perspective(state.Turn), movetime)
}

// RandomPlayer plays a uniformly random legal move
type RandomPlayer struct{}

func (RandomPlayer) Name() string {
	return "random"
}

func (RandomPlayer) Choose(_ context.Context, state uttt.GameState, _ time.Duration) (uttt.Move, error) {
	moves := state.LegalMoves()
	if len(moves) == 0 {
		return uttt.NullMove, engine.ErrNoLegalMoves
	}
	return moves[frand.Intn(len(moves))], nil
}

// LocalPlayer treats every active sub-board as a standalone tic-tac-toe
// game and plays the best solved move, ignoring where it sends the opponent.
type LocalPlayer struct{}

func (LocalPlayer) Name() string {
	return "local"
}

func (LocalPlayer) Choose(_ context.Context, state uttt.GameState, _ time.Duration) (uttt.Move, error) {
	if state.Over() {
		return uttt.NullMove, engine.ErrNoLegalMoves
	}

	best, bestRating := uttt.NullMove, engine.RatingLoss-1

	for i, status := range state.Macro {
		if status != uttt.Active {
			continue
		}

		cell, rating, err := engine.SolveSubBoard(state.SubBoards[i], state.Turn, nil)
		if err != nil {
			return uttt.NullMove, fmt.Errorf("solving sub-board %d: %w", i, err)
		}
		if rating > bestRating {
			best, bestRating = uttt.NewMove(i, cell), rating
		}
	}

	return best, nil
}
