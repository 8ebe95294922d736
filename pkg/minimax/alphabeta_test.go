package minimax

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type treeNode struct {
	value    Score
	children []*treeNode
}

var treeOps = Funcs[*treeNode]{
	EvaluateFn: func(n *treeNode) Score { return n.value },
	ChildrenFn: func(n *treeNode) []*treeNode { return n.children },
}

// Random tree with heuristic values on every node, some branches end early
func randomTree(r *rand.Rand, depth, branching int) *treeNode {
	node := &treeNode{value: Score(r.Intn(21) - 10)}
	if depth == 0 {
		return node
	}

	n := r.Intn(branching + 1)
	for i := 0; i < n; i++ {
		node.children = append(node.children, randomTree(r, depth-1, branching))
	}
	return node
}

// Tree where every interior node has exactly 'branching' children
func fullTree(r *rand.Rand, depth, branching int) *treeNode {
	node := &treeNode{value: Score(r.Intn(21) - 10)}
	if depth == 0 {
		return node
	}

	for i := 0; i < branching; i++ {
		node.children = append(node.children, fullTree(r, depth-1, branching))
	}
	return node
}

// Plain minimax without pruning, visits every node down to the given depth
func exhaustive[N any](ops GameOperations[N], node N, depth int, maximize bool) Score {
	children := ops.Children(node)
	if len(children) == 0 || depth <= 0 {
		return ops.Evaluate(node)
	}

	best := exhaustive(ops, children[0], depth-1, !maximize)
	for _, child := range children[1:] {
		score := exhaustive(ops, child, depth-1, !maximize)
		if maximize {
			best = max(best, score)
		} else {
			best = min(best, score)
		}
	}
	return best
}

func TestAlphaBetaMatchesExhaustive(t *testing.T) {
	r := rand.New(rand.NewSource(11))

	for i := 0; i < 300; i++ {
		root := randomTree(r, 6, 4)
		for depth := 0; depth <= 7; depth++ {
			for _, maximize := range []bool{true, false} {
				want := exhaustive[*treeNode](treeOps, root, depth, maximize)
				got := AlphaBeta[*treeNode](treeOps, root, depth, maximize, -10, 10)
				require.Equal(t, want, got.Score, "tree %d depth %d maximize %v", i, depth, maximize)
			}
		}
	}
}

func TestAlphaBetaFullFlag(t *testing.T) {
	leaf := func(v Score) *treeNode { return &treeNode{value: v} }
	root := &treeNode{children: []*treeNode{
		{value: 3, children: []*treeNode{leaf(1), leaf(2)}},
		{value: -3, children: []*treeNode{leaf(-1), leaf(5)}},
	}}

	shallow := AlphaBeta[*treeNode](treeOps, root, 1, true, -10, 10)
	assert.False(t, shallow.Full)
	assert.Equal(t, Score(3), shallow.Score)

	deep := AlphaBeta[*treeNode](treeOps, root, 2, true, -10, 10)
	assert.True(t, deep.Full)
	assert.Equal(t, Score(1), deep.Score)

	// Leaves are exact even at depth 0
	assert.True(t, AlphaBeta[*treeNode](treeOps, leaf(4), 0, true, -10, 10).Full)
}

func TestAlphaBetaPrunes(t *testing.T) {
	r := rand.New(rand.NewSource(5))
	root := fullTree(r, 6, 3)

	var visited uint64
	counting := Funcs[*treeNode]{
		EvaluateFn: treeOps.EvaluateFn,
		ChildrenFn: func(n *treeNode) []*treeNode {
			visited++
			return n.children
		},
	}

	exhaustive[*treeNode](counting, root, 6, true)
	all := visited
	result := AlphaBeta[*treeNode](treeOps, root, 6, true, -10, 10)

	require.Equal(t, uint64(1093), all)
	assert.Less(t, result.Nodes, all)
	t.Logf("alpha-beta visited %d of %d nodes", result.Nodes, all)
}

func ExampleAlphaBeta() {
	leaf := func(v Score) *treeNode { return &treeNode{value: v} }
	root := &treeNode{children: []*treeNode{
		{children: []*treeNode{leaf(3), leaf(5)}},
		{children: []*treeNode{leaf(-2), leaf(9)}},
	}}

	result := AlphaBeta[*treeNode](treeOps, root, 2, true, -10, 10)
	fmt.Println(result.Score, result.Full)
	// Output: 3 true
}
