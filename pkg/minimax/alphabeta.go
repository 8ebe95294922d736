package minimax

import (
	"context"
)

// Stop conditions are polled every pollInterval nodes
const pollInterval = 1 << 10

type searcher[N any] struct {
	ops     GameOperations[N]
	limiter *Limiter
	ctx     context.Context
	nodes   uint64
	// nodes already added to the shared total
	reported uint64
	full     bool
	aborted  bool
	// nodes visited by the whole search, shared between parallel searchers
	total func(delta uint64) uint64
}

func (s *searcher[N]) interrupted() bool {
	if s.aborted {
		return true
	}
	if s.nodes%pollInterval != 1 {
		return false
	}

	total := s.nodes
	if s.total != nil {
		total = s.total(s.nodes - s.reported)
		s.reported = s.nodes
	}

	if s.limiter != nil && s.limiter.Interrupted(total) {
		s.aborted = true
	} else if s.ctx != nil && s.ctx.Err() != nil {
		s.aborted = true
	}
	return s.aborted
}

// Fail-hard alpha-beta. An interrupted search evaluates the remaining nodes
// directly, the same way a depth cutoff does.
func (s *searcher[N]) alphaBeta(node N, depth int, maximize bool, alpha, beta Score) Score {
	s.nodes++
	stop := s.interrupted()

	children := s.ops.Children(node)
	if len(children) == 0 {
		return s.ops.Evaluate(node)
	}

	if depth <= 0 || stop {
		s.full = false
		return s.ops.Evaluate(node)
	}

	if maximize {
		value := alpha
		for _, child := range children {
			value = max(value, s.alphaBeta(child, depth-1, false, alpha, beta))
			if value >= beta {
				return beta
			}
			alpha = max(alpha, value)
		}
		return value
	}

	value := beta
	for _, child := range children {
		value = min(value, s.alphaBeta(child, depth-1, true, alpha, beta))
		if value <= alpha {
			return alpha
		}
		beta = min(beta, value)
	}
	return value
}

// AlphaBeta searches the node to the given depth with the [lower, upper] window.
// Leaves are evaluated directly, nodes at depth 0 are evaluated heuristically
// and clear the Full flag of the result.
func AlphaBeta[N any](ops GameOperations[N], node N, depth int, maximize bool, lower, upper Score) Result {
	s := searcher[N]{ops: ops, full: true}
	score := s.alphaBeta(node, depth, maximize, lower, upper)
	return Result{
		Score: score,
		Full:  s.full,
		Depth: depth,
		Nodes: s.nodes,
	}
}
