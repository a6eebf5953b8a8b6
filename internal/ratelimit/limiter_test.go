package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	l := New(2.5, 0)
	assert.InDelta(t, 2.5, l.Rate(), 1e-9)
	assert.Equal(t, 1, l.Burst(), "burst is raised to 1")
}

func TestWait_WithinBurst(t *testing.T) {
	l := New(1, 3)
	start := time.Now()
	for range 3 {
		require.NoError(t, l.Wait(context.Background()))
	}
	assert.Less(t, time.Since(start), 50*time.Millisecond)
}

func TestWait_CancelledBeforeReserve(t *testing.T) {
	l := New(1, 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, l.Wait(ctx), context.Canceled)
	// The token was not consumed.
	start := time.Now()
	require.NoError(t, l.Wait(context.Background()))
	assert.Less(t, time.Since(start), 50*time.Millisecond)
}

func TestWait_DeadlineWhileWaiting(t *testing.T) {
	l := New(1, 1)
	require.NoError(t, l.Wait(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, l.Wait(ctx), context.DeadlineExceeded)
}

func TestWait_JitterWithinBounds(t *testing.T) {
	// 4 lookups/s: the second token is due after ~250ms.
	const expected = 250 * time.Millisecond
	margin := time.Duration(float64(expected) * (Jitter + 0.05))

	for range 4 {
		l := New(4, 1)
		require.NoError(t, l.Wait(context.Background()))

		start := time.Now()
		require.NoError(t, l.Wait(context.Background()))
		elapsed := time.Since(start)
		assert.GreaterOrEqual(t, elapsed, expected-margin)
		assert.LessOrEqual(t, elapsed, expected+margin)
	}
}
