package limiter

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Timer provides time for fetch timing and pacing.
type Timer interface {
	Now() time.Time
	Sleep(ctx context.Context, duration time.Duration) error
}

// Limiter enforces a minimum delay between page fetches.
// A nil *Limiter never waits.
type Limiter struct {
	rate  *rate.Limiter
	clock Timer
}

// NewWithTimer creates a limiter allowing one page fetch per interval, timed by clock.
// A non-positive interval disables pacing and returns nil; a nil clock uses wall time.
func NewWithTimer(interval time.Duration, clock Timer) *Limiter {
	if interval <= 0 {
		return nil
	}

	if clock == nil {
		clock = Clock{}
	}

	return &Limiter{
		rate:  rate.NewLimiter(rate.Every(interval), 1),
		clock: clock,
	}
}

// Wait blocks until the next allowed fetch time or context cancellation.
// A cancelled wait gives its slot back.
func (l *Limiter) Wait(ctx context.Context) error {
	if l == nil {
		return nil
	}

	now := l.clock.Now()
	reservation := l.rate.ReserveN(now, 1)
	delay := reservation.DelayFrom(now)
	if delay <= 0 {
		return nil
	}

	if err := l.clock.Sleep(ctx, delay); err != nil {
		reservation.CancelAt(now)

		return err
	}

	return nil
}
