package minimax

import "errors"

// Score of a node from the searching side's perspective, higher is better.
// The valid range is set per search with the lower and upper bounds.
type Score int

// Capabilities the search needs from a game, N is the node (state) type.
// Nodes are values, Children must not mutate its argument since the
// search never undoes moves.
type GameOperations[N any] interface {
	// Score of a node, exact for terminal nodes and heuristic otherwise
	Evaluate(node N) Score
	// Nodes reachable in one move, empty for terminal nodes
	Children(node N) []N
}

// Funcs adapts a pair of closures to GameOperations
type Funcs[N any] struct {
	EvaluateFn func(N) Score
	ChildrenFn func(N) []N
}

func (f Funcs[N]) Evaluate(node N) Score { return f.EvaluateFn(node) }
func (f Funcs[N]) Children(node N) []N   { return f.ChildrenFn(node) }

// Result of searching a single branch
type Result struct {
	Score Score
	// No depth cutoff happened anywhere in the explored subtree
	Full bool
	// Depth the branch was searched to, 0 if it was never searched
	Depth int
	// Number of nodes visited, telemetry only
	Nodes uint64
}

var ErrNoChildren = errors.New("minimax: root has no children")
