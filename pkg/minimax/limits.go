package minimax

import (
	"fmt"
	"time"
)

// Limits bound a single search, zero values mean no limit.
// A search with no limit at all runs until every branch is proven
// or it's stopped.
type Limits struct {
	Depth    int
	Nodes    uint64
	Movetime time.Duration
	// Root branches searched in parallel
	Threads int
}

func DefaultLimits() *Limits {
	return &Limits{Threads: 1}
}

func (l Limits) Infinite() bool {
	return l.Depth <= 0 && l.Nodes == 0 && l.Movetime <= 0
}

func (l Limits) String() string {
	if l.Infinite() {
		return fmt.Sprintf("infinite threads=%d", l.Threads)
	}
	return fmt.Sprintf("depth=%d nodes=%d movetime=%v threads=%d", l.Depth, l.Nodes, l.Movetime, l.Threads)
}

// Maximum iterative deepening depth
func (l *Limits) SetDepth(depth int) *Limits {
	l.Depth = max(depth, 0)
	return l
}

// Maximum number of visited nodes
func (l *Limits) SetNodes(nodes uint64) *Limits {
	l.Nodes = nodes
	return l
}

func (l *Limits) SetMovetime(movetime time.Duration) *Limits {
	l.Movetime = max(movetime, 0)
	return l
}

func (l *Limits) SetThreads(threads int) *Limits {
	l.Threads = max(threads, 1)
	return l
}
