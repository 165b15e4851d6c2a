// Package ratelimit bounds how fast workers may issue remote requests.
//
// The limiter grants at most Burst acquisitions inside any rolling window of
// the configured length, blocking callers (cancellably) until a slot frees.
// With Burst 1 it degenerates to a fixed inter-call delay, which is the
// single-worker default. Every request, including retries, must pass through
// Wait; nothing else in the program throttles.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Limiter enforces a rolling-window request budget. Safe for concurrent use.
type Limiter struct {
	window time.Duration
	burst  int

	mu     sync.Mutex
	grants []time.Time

	now   func() time.Time
	sleep func(context.Context, time.Duration) error
}

// New builds a limiter allowing burst acquisitions per window. A non-positive
// burst is treated as 1; a non-positive window disables limiting entirely.
func New(burst int, window time.Duration) *Limiter {
	if burst < 1 {
		burst = 1
	}
	return &Limiter{
		window: window,
		burst:  burst,
		now:    time.Now,
		sleep:  sleepWithContext,
	}
}

// NewInterval builds the degenerate fixed-delay limiter: one request per
// interval.
func NewInterval(interval time.Duration) *Limiter {
	return New(1, interval)
}

// Wait blocks until the caller may issue a request, or until ctx is done.
func (l *Limiter) Wait(ctx context.Context) error {
	if l == nil || l.window <= 0 {
		return ctx.Err()
	}
	for {
		l.mu.Lock()
		now := l.now()
		l.expire(now)
		if len(l.grants) < l.burst {
			l.grants = append(l.grants, now)
			l.mu.Unlock()
			return nil
		}
		wait := l.grants[0].Add(l.window).Sub(now)
		l.mu.Unlock()

		if err := l.sleep(ctx, wait); err != nil {
			return err
		}
	}
}

// expire drops grants that have rolled out of the window. Callers hold mu.
func (l *Limiter) expire(now time.Time) {
	cutoff := now.Add(-l.window)
	kept := l.grants[:0]
	for _, grant := range l.grants {
		if grant.After(cutoff) {
			kept = append(kept, grant)
		}
	}
	l.grants = kept
}

func sleepWithContext(ctx context.Context, d time.Duration) error {
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

// SleepWithContext blocks for the given duration, returning early if the
// context is cancelled. Exported for the orchestrator's backoff waits so all
// cancellable sleeps share one implementation.
func SleepWithContext(ctx context.Context, d time.Duration) error {
	return sleepWithContext(ctx, d)
}
