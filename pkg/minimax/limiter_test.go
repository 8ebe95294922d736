package minimax

import (
	"context"
	"testing"
	"time"
)

func TestLimiterSingleLimits(t *testing.T) {
	limiter := NewLimiter()

	if !limiter.Ok(1000000, 1000) {
		t.Error("Default limiter should search infinitely")
	}

	limiter.SetLimits(DefaultLimits().SetNodes(100))
	limiter.Reset()
	if ok := limiter.Ok(101, 1); ok {
		t.Errorf("<Nodes=%d: ok=%v, want=%v", 101, ok, !ok)
	}

	if ok := limiter.Ok(99, 1); !ok {
		t.Errorf(">Nodes=%d: ok=%v, want=%v", 99, ok, !ok)
	}

	limiter.SetLimits(DefaultLimits().SetDepth(4))
	limiter.Reset()
	if ok := limiter.Ok(1, 4); ok {
		t.Errorf("<Depth=%d: ok=%v, want=%v", 4, ok, !ok)
	}

	if limiter.Interrupted(1) {
		t.Error("Depth limit must not interrupt a running pass")
	}

	limiter.SetLimits(DefaultLimits().SetMovetime(100 * time.Millisecond))
	limiter.Reset()
	time.Sleep(time.Millisecond * 101)

	if ok := limiter.Ok(1, 1); ok {
		t.Errorf("<Movetime: ok=%v, want=%v", ok, !ok)
	}

	limiter.Reset()
	if ok := limiter.Ok(1, 1); !ok {
		t.Errorf(">Movetime: ok=%v, want=%v", ok, !ok)
	}
}

func TestLimiterStopSignal(t *testing.T) {
	limiter := NewLimiter()
	limiter.Reset()

	limiter.SetStop(true)
	if !limiter.Interrupted(1) {
		t.Error("Stop signal should interrupt even an infinite search")
	}

	ctx, cancel := context.WithCancel(context.Background())
	limiter.SetContext(ctx)
	limiter.Reset()
	if limiter.Stop() {
		t.Error("Reset should clear the stop signal")
	}

	cancel()
	limiter.EvaluateStopReason(1, 1, false)
	if reason := limiter.StopReason(); reason != StopInterrupt {
		t.Errorf("StopReason=%s, want=%s", reason, StopInterrupt)
	}
}

func TestStopReasonString(t *testing.T) {
	tests := []struct {
		reason StopReason
		want   string
	}{
		{StopNone, "None"},
		{StopMovetime, "Movetime"},
		{StopMovetime | StopDepth, "Movetime|Depth"},
		{StopInterrupt | StopProven, "Interrupt|Proven"},
	}

	for _, tt := range tests {
		if got := tt.reason.String(); got != tt.want {
			t.Errorf("String()=%s, want=%s", got, tt.want)
		}
	}
}
