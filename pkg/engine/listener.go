package engine

import (
	"time"

	"github.com/IlikeChooros/uttt-bot/pkg/minimax"
	"github.com/IlikeChooros/uttt-bot/pkg/uttt"
	"github.com/rs/zerolog"
)

// StageReport summarizes a single pipeline stage
type StageReport struct {
	// 1-based position of the stage in the pipeline
	Index      int
	Name       string
	Before     int
	Eliminated int
	Remaining  int
	// Rating of the surviving moves
	Best Rating
	// Time since the decision started
	Elapsed time.Duration
	Moves   []uttt.Move
}

// Decision is reported once per FindBestMove call
type Decision struct {
	Move uttt.Move
	// Moves still tied when the decision was made
	Candidates []uttt.Move
	// Picked at random among the tied candidates
	Random  bool
	Elapsed time.Duration
}

type Listener struct {
	onStage    func(StageReport)
	onDecision func(Decision)
	onSearch   minimax.ListenerFunc
}

func NewListener() *Listener {
	return &Listener{}
}

// Called after every stage that ran
func (l *Listener) OnStage(fn func(StageReport)) *Listener {
	l.onStage = fn
	return l
}

// Called once the move is chosen
func (l *Listener) OnDecision(fn func(Decision)) *Listener {
	l.onDecision = fn
	return l
}

// Called after every deepening pass of the search stage
func (l *Listener) OnSearch(fn minimax.ListenerFunc) *Listener {
	l.onSearch = fn
	return l
}

func (l *Listener) invokeStage(r StageReport) {
	if l != nil && l.onStage != nil {
		l.onStage(r)
	}
}

func (l *Listener) invokeDecision(d Decision) {
	if l != nil && l.onDecision != nil {
		l.onDecision(d)
	}
}

func (l *Listener) searchListener() minimax.StatsListener {
	listener := minimax.NewStatsListener()
	if l != nil && l.onSearch != nil {
		listener.OnDepth(l.onSearch).OnStop(l.onSearch)
	}
	return listener
}

// LogListener reports the pipeline progress as structured log events
func LogListener(logger zerolog.Logger) *Listener {
	return NewListener().
		OnStage(func(r StageReport) {
			logger.Debug().
				Int("stage", r.Index).
				Str("name", r.Name).
				Int("eliminated", r.Eliminated).
				Int("of", r.Before).
				Int("best", int(r.Best)).
				Dur("elapsed", r.Elapsed).
				Msgf("Stage #%d (%s) eliminated %d of %d moves", r.Index, r.Name, r.Eliminated, r.Before)
		}).
		OnSearch(func(stats minimax.ListenerStats) {
			logger.Debug().
				Int("depth", stats.Depth).
				Uint64("nodes", stats.Nodes).
				Uint64("nps", stats.Nps).
				Int("proven", stats.Proven).
				Int("branches", stats.Branches).
				Str("reason", stats.StopReason.String()).
				Msg("search")
		}).
		OnDecision(func(d Decision) {
			logger.Info().
				Stringer("move", d.Move).
				Int("candidates", len(d.Candidates)).
				Bool("random", d.Random).
				Dur("elapsed", d.Elapsed).
				Msg("decision")
		})
}
