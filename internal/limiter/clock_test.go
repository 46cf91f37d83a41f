package limiter

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestClockNowTracksWallTime(t *testing.T) {
	t.Parallel()

	before := time.Now()
	got := NewClock().Now()

	require.False(t, got.Before(before))
	require.WithinDuration(t, time.Now(), got, time.Second)
}

func TestClockSleep(t *testing.T) {
	t.Parallel()

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	tests := []struct {
		name     string
		ctx      context.Context
		duration time.Duration
		wantErr  error
	}{
		{name: "zero duration", ctx: context.Background(), duration: 0},
		{name: "negative duration", ctx: context.Background(), duration: -time.Second},
		{name: "short sleep", ctx: context.Background(), duration: 2 * time.Millisecond},
		{name: "cancelled before sleeping", ctx: cancelled, duration: time.Hour, wantErr: context.Canceled},
		{name: "cancelled with zero duration", ctx: cancelled, duration: 0, wantErr: context.Canceled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := NewClock().Sleep(tt.ctx, tt.duration)
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}

			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestClockSleepStopsAtDeadline(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := NewClock().Sleep(ctx, time.Minute)

	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.Less(t, time.Since(start), 30*time.Second)
}
