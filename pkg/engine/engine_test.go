package engine

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/IlikeChooros/uttt-bot/pkg/minimax"
	"github.com/IlikeChooros/uttt-bot/pkg/uttt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// X holds sub-boards 0 and 1 and wins sub-board 2 (and the game) with 8 0,
// every other sub-board is drawn
const forcedWin = "xxxoo4/xxxoo4/xx1oo4/xoxxoooxx/xoxxoooxx/xoxxoooxx/xoxxoooxx/xoxxoooxx/xoxxoooxx x 2"

func TestSearchFindsForcedWin(t *testing.T) {
	s, err := uttt.ParseNotation(forcedWin)
	require.NoError(t, err)
	require.GreaterOrEqual(t, s.Round, DefaultMinSearchRound)

	moves := s.LegalMoves()
	require.Equal(t, []uttt.Move{{X: 8, Y: 0}, {X: 8, Y: 1}, {X: 6, Y: 2}, {X: 7, Y: 2}, {X: 8, Y: 2}}, moves)

	children := make([]uttt.GameState, len(moves))
	for i, m := range moves {
		children[i] = s.Apply(m)
	}

	search := minimax.New[uttt.GameState](gameOperations(s.Me), -1, 1)
	results, err := search.EvaluateChildren(children, 20)
	require.NoError(t, err)

	assert.Equal(t, minimax.Score(1), results[0].Score)
	for i, r := range results {
		assert.True(t, r.Full, "move %v", moves[i])
		if i > 0 {
			assert.Equal(t, minimax.Score(0), r.Score, "move %v", moves[i])
		}
	}
}

func TestFindBestMoveForcedWin(t *testing.T) {
	a := assessed(t, forcedWin)

	var reports []StageReport
	listener := NewListener().OnStage(func(r StageReport) {
		reports = append(reports, r)
	})

	e := New(WithListener(listener), WithChooser(SeededChooser(1)))
	move, err := e.FindBestMove(context.Background(), a, 200*time.Millisecond)
	require.NoError(t, err)

	assert.Equal(t, uttt.Move{X: 8, Y: 0}, move)
	require.Len(t, reports, 1)
	assert.Equal(t, "minimax", reports[0].Name)
	assert.Equal(t, 4, reports[0].Eliminated)
	assert.Equal(t, RatingWin, reports[0].Best)
}

func TestFindBestMoveErrors(t *testing.T) {
	e := New()

	s, err := uttt.ParseNotation("xxx6/xxx6/xx1oo4/9/o8/o8/o8/o8/9 x 2")
	require.NoError(t, err)
	over := s.Apply(uttt.NewMove(2, 2))
	require.True(t, over.Over())

	_, err = e.FindBestMove(context.Background(), AssessState(over.Perspective(over.Turn)), time.Second)
	assert.ErrorIs(t, err, ErrNoLegalMoves)

	_, err = e.FindBestMove(context.Background(), AssessState(s.Perspective(uttt.O)), time.Second)
	assert.ErrorIs(t, err, ErrNotOnTurn)

	broken := New(WithStages(Stage{
		Name: "broken",
		Rate: func(context.Context, []uttt.Move, *AssessedState) []Rating {
			return []Rating{1}
		},
	}))
	_, err = broken.Decide(context.Background(), uttt.NewGame(), time.Second)
	assert.ErrorIs(t, err, ErrRatingMismatch)
}

func TestFindBestMoveSingleCandidate(t *testing.T) {
	// Only one empty cell is left in the only playable sub-board
	s, err := uttt.ParseNotation("xoxxooox1/xoxxoooxx/xoxxoooxx/xoxxoooxx/xoxxoooxx/xoxxoooxx/xoxxoooxx/xoxxoooxx/xoxxoooxx x 0")
	require.NoError(t, err)

	stages := 0
	decisions := 0
	listener := NewListener().
		OnStage(func(StageReport) { stages++ }).
		OnDecision(func(d Decision) {
			decisions++
			assert.False(t, d.Random)
		})

	move, err := New(WithListener(listener)).Decide(context.Background(), s, time.Second)
	require.NoError(t, err)
	assert.Equal(t, uttt.NewMove(0, 8), move)
	assert.Zero(t, stages)
	assert.Equal(t, 1, decisions)
}

func TestPipelineConvergence(t *testing.T) {
	r := rand.New(rand.NewSource(9))

	for i := 0; i < 40; i++ {
		s := uttt.NewGame()
		plies := r.Intn(40)
		for p := 0; p < plies && !s.Over(); p++ {
			moves := s.LegalMoves()
			s = s.Apply(moves[r.Intn(len(moves))])
		}
		if s.Over() {
			continue
		}
		s = s.Perspective(s.Turn)

		var last StageReport
		listener := NewListener().OnStage(func(report StageReport) {
			require.Equal(t, report.Before, report.Eliminated+report.Remaining)
			require.Positive(t, report.Remaining)
			require.Greater(t, report.Index, last.Index)
			last = report
		})

		e := New(
			WithListener(listener),
			WithChooser(SeededChooser(uint64(i))),
			WithSafetyMargin(0),
		)
		move, err := e.Decide(context.Background(), s, 30*time.Millisecond)
		require.NoError(t, err)
		assert.Contains(t, s.LegalMoves(), move, s.Notation())
	}
}

func TestSeededTieBreakIsReproducible(t *testing.T) {
	s := uttt.NewGame()

	first, err := New(WithChooser(SeededChooser(42))).Decide(context.Background(), s, time.Second)
	require.NoError(t, err)
	second, err := New(WithChooser(SeededChooser(42))).Decide(context.Background(), s, time.Second)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestSolveSubBoard(t *testing.T) {
	board := uttt.SubBoard{uttt.X, uttt.X, uttt.NoOne, uttt.O, uttt.O}

	cell, rating, err := SolveSubBoard(board, uttt.X, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, cell)
	assert.Equal(t, RatingWin, rating)

	cell, rating, err = SolveSubBoard(board, uttt.O, nil)
	require.NoError(t, err)
	assert.Equal(t, 5, cell)
	assert.Equal(t, RatingWin, rating)

	_, rating, err = SolveSubBoard(uttt.SubBoard{}, uttt.X, nil)
	require.NoError(t, err)
	assert.Equal(t, RatingUndecided, rating, "tic-tac-toe is a draw")

	full := uttt.SubBoard{uttt.X, uttt.O, uttt.X, uttt.X, uttt.O, uttt.O, uttt.O, uttt.X, uttt.X}
	_, _, err = SolveSubBoard(full, uttt.X, nil)
	assert.ErrorIs(t, err, ErrNoLegalMoves)
}
