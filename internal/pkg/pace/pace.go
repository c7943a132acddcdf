// Package pace provides inter-batch pacing for the sync orchestrator.
package pace

import (
	"context"
	"time"
)

// Pacer pauses between orchestrator batches. Implementations bound how fast
// consecutive batches hit the external platform APIs; swapping in a
// token-bucket or adaptive limiter only touches the orchestrator's
// constructor.
type Pacer interface {
	Pause(ctx context.Context) error
}

// Fixed pauses for a constant interval, the simple fixed-window discipline
// used between sync batches.
type Fixed struct {
	interval time.Duration
}

// NewFixed creates a pacer with a constant inter-batch interval.
// A non-positive interval disables pausing.
func NewFixed(interval time.Duration) *Fixed {
	return &Fixed{interval: interval}
}

// Pause waits out the interval or returns early if the context is done.
func (f *Fixed) Pause(ctx context.Context) error {
	if f.interval <= 0 {
		return nil
	}

	timer := time.NewTimer(f.interval)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
