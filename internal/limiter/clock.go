package limiter

import (
	"context"
	"time"
)

// Clock is the wall-clock Timer.
type Clock struct{}

var _ Timer = Clock{}

// NewClock returns the wall-clock Timer.
func NewClock() Clock {
	return Clock{}
}

// Now returns the current local time.
func (Clock) Now() time.Time {
	return time.Now()
}

// Sleep pauses for duration or until ctx is done, whichever comes first.
// A non-positive duration only reports an already cancelled context.
func (Clock) Sleep(ctx context.Context, duration time.Duration) error {
	if duration <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(duration)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
