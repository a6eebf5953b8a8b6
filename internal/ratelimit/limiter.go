// Package ratelimit paces DNS lookups so bulk checks stay within what a
// resolver or DoH endpoint tolerates.
package ratelimit

import (
	"context"
	"math/rand/v2"
	"time"

	"golang.org/x/time/rate"
)

// Jitter is the fraction by which a wait is randomly stretched or shortened.
const Jitter = 0.20

// Limiter is a token bucket whose waits carry ±Jitter random spread.
type Limiter struct {
	inner *rate.Limiter
}

// New creates a Limiter allowing rps lookups per second with the given burst.
// A burst below 1 is raised to 1.
func New(rps float64, burst int) *Limiter {
	return &Limiter{inner: rate.NewLimiter(rate.Limit(rps), max(1, burst))}
}

// Rate returns the configured lookups per second.
func (l *Limiter) Rate() float64 {
	return float64(l.inner.Limit())
}

// Burst returns the configured burst size.
func (l *Limiter) Burst() int {
	return l.inner.Burst()
}

// Wait blocks until a token is available or ctx is done. The token is
// returned to the bucket when ctx ends first.
func (l *Limiter) Wait(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	res := l.inner.Reserve()
	if !res.OK() {
		return ctx.Err()
	}

	delay := res.Delay()
	if delay <= 0 {
		return nil
	}
	jitter := time.Duration(float64(delay) * Jitter * (rand.Float64()*2 - 1)) //nolint:gosec // jitter needs no crypto randomness
	delay = max(0, delay+jitter)

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		res.Cancel()
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
