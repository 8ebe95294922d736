package minimax

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
)

var errWinFound = errors.New("minimax: winning branch found")

// Minimax searches the children of a root position, one branch per
// immediate move. Every branch starts with the minimizing side to move,
// since the root move was already made by the maximizing side.
type Minimax[N any] struct {
	Limiter  *Limiter
	ops      GameOperations[N]
	lower    Score
	upper    Score
	decisive func(Score) bool
	listener StatsListener
	nodes    atomic.Uint64
	ctx      context.Context
}

// New search engine over the given operations, scores are bounded by [lower, upper]
func New[N any](ops GameOperations[N], lower, upper Score) *Minimax[N] {
	m := &Minimax[N]{
		Limiter:  NewLimiter(),
		ops:      ops,
		lower:    lower,
		upper:    upper,
		listener: NewStatsListener(),
		ctx:      context.Background(),
	}
	m.decisive = func(s Score) bool {
		return s == m.lower || s == m.upper
	}
	return m
}

func (m *Minimax[N]) SetLimits(limits *Limits) {
	m.Limiter.SetLimits(limits)
}

func (m *Minimax[N]) Limits() *Limits {
	return m.Limiter.Limits()
}

func (m *Minimax[N]) SetContext(ctx context.Context) {
	m.ctx = ctx
	m.Limiter.SetContext(ctx)
}

func (m *Minimax[N]) SetListener(listener StatsListener) {
	m.listener = listener
}

// Scores that settle a branch no matter how deep it was searched,
// by default the lower and upper bounds
func (m *Minimax[N]) SetDecisive(fn func(Score) bool) {
	if fn != nil {
		m.decisive = fn
	}
}

// Stop the search, running branches return their current estimate
func (m *Minimax[N]) Stop() {
	m.Limiter.SetStop(true)
}

// Total nodes visited by the last search
func (m *Minimax[N]) Nodes() uint64 {
	return m.nodes.Load()
}

func (m *Minimax[N]) Bounds() (lower, upper Score) {
	return m.lower, m.upper
}

func (m *Minimax[N]) addNodes(delta uint64) uint64 {
	return m.nodes.Add(delta)
}

// Search a single branch to the given depth
func (m *Minimax[N]) EvaluateBranch(root N, depth int) Result {
	return m.evaluateBranch(m.ctx, root, depth)
}

func (m *Minimax[N]) evaluateBranch(ctx context.Context, root N, depth int) Result {
	s := searcher[N]{
		ops:     m.ops,
		limiter: m.Limiter,
		ctx:     ctx,
		full:    true,
		total:   m.addNodes,
	}

	score := s.alphaBeta(root, depth, false, m.lower, m.upper)
	m.nodes.Add(s.nodes - s.reported)
	return Result{
		Score: score,
		Full:  s.full && !s.aborted,
		Depth: depth,
		Nodes: s.nodes,
	}
}

// Single fixed-depth pass over the given children, one result per child in order
func (m *Minimax[N]) EvaluateChildren(children []N, depth int) ([]Result, error) {
	if len(children) == 0 {
		return nil, ErrNoChildren
	}

	m.nodes.Store(0)
	m.Limiter.Reset()
	results := make([]Result, len(children))
	pending := make([]bool, len(children))
	for i := range pending {
		pending[i] = true
	}

	m.pass(children, pending, results, depth, false)
	m.Limiter.EvaluateStopReason(m.Nodes(), depth, false)
	return results, nil
}

// Iterative deepening over the given children until the limits are hit,
// every branch is resolved or a winning branch is found. A branch is resolved
// once its subtree was fully searched or its score is decisive, resolved
// branches are skipped by the deeper passes. Results of a pass cut short by
// the limits only replace earlier ones when they are decisive.
func (m *Minimax[N]) EvaluateChildrenUntilTimeout(children []N) ([]Result, error) {
	if len(children) == 0 {
		return nil, ErrNoChildren
	}

	m.nodes.Store(0)
	m.Limiter.Reset()
	results := make([]Result, len(children))
	resolved := make([]bool, len(children))
	depth := 0
	proven := 0

	for {
		depth++
		pending := make([]bool, len(children))
		for i := range pending {
			pending[i] = !resolved[i]
		}

		pass := make([]Result, len(children))
		win := m.pass(children, pending, pass, depth, true)
		interrupted := m.Limiter.Interrupted(m.Nodes())

		for i, r := range pass {
			if !pending[i] || r.Depth == 0 {
				continue
			}
			if interrupted && !r.Full && !m.decisive(r.Score) && results[i].Depth != 0 {
				continue
			}

			results[i] = r
			if r.Full || m.decisive(r.Score) {
				resolved[i] = true
				proven++
			}
		}

		completed := depth
		if interrupted {
			completed--
		}
		m.listener.invokeDepth(m.stats(completed, proven, results))

		if win || proven == len(children) || !m.Limiter.Ok(m.Nodes(), depth) {
			m.Limiter.EvaluateStopReason(m.Nodes(), depth, proven == len(children))
			m.listener.invokeStop(m.stats(completed, proven, results))
			return results, nil
		}
	}
}

// Search the pending children at the given depth, storing results in place.
// Returns true once a winning branch was found, with stopOnWin the remaining
// branches are then abandoned.
func (m *Minimax[N]) pass(children []N, pending []bool, results []Result, depth int, stopOnWin bool) bool {
	threads := max(m.Limiter.Limits().Threads, 1)
	win := false
	if threads == 1 {
		for i, child := range children {
			if !pending[i] {
				continue
			}

			results[i] = m.evaluateBranch(m.ctx, child, depth)
			if results[i].Score == m.upper {
				win = true
				if stopOnWin {
					return true
				}
			}
			if m.Limiter.Interrupted(m.Nodes()) {
				break
			}
		}
		return win
	}

	g, ctx := errgroup.WithContext(m.ctx)
	g.SetLimit(threads)

	for i, child := range children {
		if !pending[i] {
			continue
		}

		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}

			results[i] = m.evaluateBranch(ctx, child, depth)
			if results[i].Score == m.upper && stopOnWin {
				return errWinFound
			}
			return nil
		})
	}

	if err := g.Wait(); errors.Is(err, errWinFound) {
		return true
	}
	for i := range results {
		win = win || (pending[i] && results[i].Depth != 0 && results[i].Score == m.upper)
	}
	return win
}

func (m *Minimax[N]) stats(depth, proven int, results []Result) ListenerStats {
	elapsed := max(m.Limiter.Elapsed(), time.Millisecond)
	nodes := m.Nodes()
	return ListenerStats{
		Depth:      depth,
		Nodes:      nodes,
		Elapsed:    elapsed,
		Nps:        uint64(float64(nodes) / elapsed.Seconds()),
		Proven:     proven,
		Branches:   len(results),
		Results:    append([]Result(nil), results...),
		StopReason: m.Limiter.StopReason(),
	}
}
