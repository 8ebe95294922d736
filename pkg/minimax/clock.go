package minimax

import (
	"context"
	"time"
)

// clock measures a single search, the zero deadline means no time limit
type clock struct {
	start    time.Time
	deadline time.Time
}

// Restart the clock, the deadline is the earlier of the movetime
// and the context deadline
func (c *clock) restart(ctx context.Context, movetime time.Duration) {
	c.start = time.Now()
	c.deadline = time.Time{}

	if movetime > 0 {
		c.deadline = c.start.Add(movetime)
	}
	if d, ok := ctx.Deadline(); ok && (c.deadline.IsZero() || d.Before(c.deadline)) {
		c.deadline = d
	}
}

func (c *clock) expired() bool {
	return !c.deadline.IsZero() && !time.Now().Before(c.deadline)
}

func (c *clock) elapsed() time.Duration {
	return time.Since(c.start)
}
