package minimax

import "time"

type ListenerStats struct {
	// Last completed deepening pass
	Depth   int
	Nodes   uint64
	Elapsed time.Duration
	Nps     uint64
	// Branches resolved so far (fully searched or decisive)
	Proven     int
	Branches   int
	Results    []Result
	StopReason StopReason
}

// Listener function callback, receives the current search statistics
type ListenerFunc func(ListenerStats)

// StatsListener reports the progress of EvaluateChildrenUntilTimeout
type StatsListener struct {
	onDepth ListenerFunc
	onStop  ListenerFunc
}

func NewStatsListener() StatsListener {
	return StatsListener{}
}

// Called after every completed deepening pass, from the goroutine
// running the search
func (listener *StatsListener) OnDepth(onDepth ListenerFunc) *StatsListener {
	listener.onDepth = onDepth
	return listener
}

// Called once when the search ends, the stats carry the stop reason
func (listener *StatsListener) OnStop(onStop ListenerFunc) *StatsListener {
	listener.onStop = onStop
	return listener
}

func (listener *StatsListener) invokeDepth(stats ListenerStats) {
	if listener.onDepth != nil {
		listener.onDepth(stats)
	}
}

func (listener *StatsListener) invokeStop(stats ListenerStats) {
	if listener.onStop != nil {
		listener.onStop(stats)
	}
}
