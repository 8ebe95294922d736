package minimax

import (
	"context"
	"errors"
	"sync/atomic"
	"time"
)

type StopReason int

const (
	StopNone      StopReason = 0
	StopInterrupt StopReason = 1  // SetStop(true) or context cancellation
	StopMovetime  StopReason = 2  // Movetime or context deadline
	StopDepth     StopReason = 4  // Depth limit reached
	StopNodes     StopReason = 8  // Node limit reached
	StopProven    StopReason = 16 // Every branch was resolved
)

func (sr StopReason) String() string {
	if sr == StopNone {
		return "None"
	}

	reasons := []struct {
		flag StopReason
		name string
	}{
		{StopInterrupt, "Interrupt"},
		{StopMovetime, "Movetime"},
		{StopDepth, "Depth"},
		{StopNodes, "Nodes"},
		{StopProven, "Proven"},
	}

	var result string
	for _, r := range reasons {
		if sr&r.flag == r.flag {
			if result != "" {
				result += "|"
			}
			result += r.name
		}
	}

	return result
}

type Limiter struct {
	limits *Limits
	clock  clock
	stop   atomic.Bool
	reason StopReason
	ctx    context.Context
}

func NewLimiter() *Limiter {
	l := &Limiter{
		limits: DefaultLimits(),
		ctx:    context.Background(),
	}
	l.clock.restart(l.ctx, 0)
	return l
}

// Reset the flags and restart the clock, called on search setup
func (l *Limiter) Reset() {
	l.clock.restart(l.ctx, l.limits.Movetime)
	l.stop.Store(false)
	l.reason = StopNone
}

// The context deadline counts as a movetime limit,
// its cancellation as an interrupt
func (l *Limiter) SetContext(ctx context.Context) {
	l.ctx = ctx
}

func (l *Limiter) SetStop(v bool) {
	l.stop.Store(v)
}

// Stop signal, either set explicitly or by the context cancellation
func (l *Limiter) Stop() bool {
	if errors.Is(l.ctx.Err(), context.Canceled) {
		l.stop.Store(true)
	}
	return l.stop.Load()
}

func (l *Limiter) SetLimits(limits *Limits) {
	l.limits = limits
}

func (l *Limiter) Limits() *Limits {
	return l.limits
}

// Time since the last Reset call
func (l *Limiter) Elapsed() time.Duration {
	return l.clock.elapsed()
}

// Flags of every limit reached, given the visited nodes and completed depth
func (l *Limiter) LimitMask(nodes uint64, depth int) StopReason {
	mask := StopNone
	if l.Stop() {
		mask |= StopInterrupt
	}

	if l.clock.expired() {
		mask |= StopMovetime
	}
	if l.limits.Depth > 0 && l.limits.Depth <= depth {
		mask |= StopDepth
	}
	if l.limits.Nodes > 0 && l.limits.Nodes <= nodes {
		mask |= StopNodes
	}
	return mask
}

// Interrupted reports whether a running pass must be abandoned,
// polled by the searchers between node expansions
func (l *Limiter) Interrupted(nodes uint64) bool {
	return l.LimitMask(nodes, 0)&^StopDepth != StopNone
}

// Whether the next deepening pass may start
func (l *Limiter) Ok(nodes uint64, depth int) bool {
	return l.LimitMask(nodes, depth) == StopNone
}

// Set the reason why the search stopped, called once after the search ends
func (l *Limiter) EvaluateStopReason(nodes uint64, depth int, proven bool) {
	l.reason = l.LimitMask(nodes, depth)
	if proven {
		l.reason |= StopProven
	}
}

// Reason why the search was stopped, valid after the search ends
func (l *Limiter) StopReason() StopReason {
	return l.reason
}
