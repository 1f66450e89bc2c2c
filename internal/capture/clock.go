package capture

import (
	"context"
	"time"
)

// Clock provides the suspension points used by the sequencer.
type Clock interface {
	// Sleep waits for d or until ctx is done, returning ctx.Err() in the latter case.
	Sleep(ctx context.Context, d time.Duration) error
}

// RealClock sleeps on wall-clock timers.
type RealClock struct{}

// Sleep implements Clock. The timer is stopped when ctx ends first.
func (RealClock) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
