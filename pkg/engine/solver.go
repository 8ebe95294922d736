package engine

import (
	"github.com/IlikeChooros/uttt-bot/pkg/minimax"
	"github.com/IlikeChooros/uttt-bot/pkg/uttt"
)

type subBoardNode struct {
	board uttt.SubBoard
	turn  uttt.Player
}

func subBoardOperations(me uttt.Player) minimax.Funcs[subBoardNode] {
	return minimax.Funcs[subBoardNode]{
		EvaluateFn: func(n subBoardNode) minimax.Score {
			switch n.board.Winner() {
			case uttt.NoOne:
				return minimax.Score(RatingUndecided)
			case me:
				return minimax.Score(RatingWin)
			}
			return minimax.Score(RatingLoss)
		},
		ChildrenFn: func(n subBoardNode) []subBoardNode {
			moves := n.board.LegalMoves()
			children := make([]subBoardNode, len(moves))
			for i, cell := range moves {
				children[i] = subBoardNode{n.board.Play(cell, n.turn), n.turn.Opponent()}
			}
			return children
		},
	}
}

// SolveSubBoard plays a single sub-board as a standalone tic-tac-toe game,
// returning the first cell with the best outcome for the side to move and
// that outcome: RatingWin, RatingUndecided (draw) or RatingLoss.
// Nil limits search the board to the end.
func SolveSubBoard(board uttt.SubBoard, toMove uttt.Player, limits *minimax.Limits) (int, Rating, error) {
	moves := board.LegalMoves()
	if len(moves) == 0 {
		return -1, RatingUndecided, ErrNoLegalMoves
	}

	engine := minimax.New[subBoardNode](subBoardOperations(toMove),
		minimax.Score(RatingLoss), minimax.Score(RatingWin))
	if limits != nil {
		engine.SetLimits(limits)
	}

	children := make([]subBoardNode, len(moves))
	for i, cell := range moves {
		children[i] = subBoardNode{board.Play(cell, toMove), toMove.Opponent()}
	}

	results, err := engine.EvaluateChildrenUntilTimeout(children)
	if err != nil {
		return -1, RatingUndecided, err
	}

	best := 0
	for i, r := range results {
		if r.Score > results[best].Score {
			best = i
		}
	}
	return moves[best], Rating(results[best].Score), nil
}
