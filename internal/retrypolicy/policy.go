// Package retrypolicy decides, without performing any I/O, whether a failed
// attempt should be retried and after how long. Keeping the decision pure
// lets the orchestrator own the actual sleeping and lets tests exercise the
// whole table instantly.
package retrypolicy

import (
	"math/rand/v2"
	"time"

	"gridpull/internal/nsrdb"
)

const (
	defaultMaxAttempts    = 6
	defaultBaseDelay      = time.Second
	defaultMaxDelay       = 60 * time.Second
	defaultMultiplier     = 2.0
	defaultContentRetries = 2

	// jitterFraction bounds the random spread added to each delay so retry
	// storms across tasks stay desynchronized.
	jitterFraction = 0.25
)

// Decision is the outcome of consulting the policy for one failed attempt.
type Decision struct {
	Retry bool
	Delay time.Duration
}

var giveUp = Decision{}

// Policy computes retry decisions from attempt counts and error kinds.
type Policy struct {
	MaxAttempts    int
	BaseDelay      time.Duration
	MaxDelay       time.Duration
	Multiplier     float64
	ContentRetries int

	// Jitter returns a pseudo-random value in [0,1). Overridable in tests.
	Jitter func() float64
}

// Default returns the stock policy: six attempts with exponential backoff
// from one second capped at a minute, and two extra tries for structurally
// invalid payloads.
func Default() Policy {
	return Policy{
		MaxAttempts:    defaultMaxAttempts,
		BaseDelay:      defaultBaseDelay,
		MaxDelay:       defaultMaxDelay,
		Multiplier:     defaultMultiplier,
		ContentRetries: defaultContentRetries,
	}
}

// Next decides what to do after attempt number attempt (1-based) failed with
// the given kind. Permanent rejections never retry; rate-limit and transient
// failures back off exponentially until MaxAttempts; invalid payloads get a
// small bounded number of retries since corruption is often transient.
func (p Policy) Next(attempt int, kind nsrdb.Kind) Decision {
	if attempt < 1 {
		attempt = 1
	}
	switch kind {
	case nsrdb.KindPermanent:
		return giveUp
	case nsrdb.KindContentInvalid:
		if attempt > p.contentRetries() {
			return giveUp
		}
		return Decision{Retry: true, Delay: p.delayFor(attempt)}
	default:
		// Rate-limit, transient, and unclassified failures all back off.
		if attempt >= p.maxAttempts() {
			return giveUp
		}
		return Decision{Retry: true, Delay: p.delayFor(attempt)}
	}
}

func (p Policy) delayFor(attempt int) time.Duration {
	base := p.BaseDelay
	if base <= 0 {
		base = defaultBaseDelay
	}
	multiplier := p.Multiplier
	if multiplier <= 1 {
		multiplier = defaultMultiplier
	}
	ceiling := p.MaxDelay
	if ceiling <= 0 {
		ceiling = defaultMaxDelay
	}

	delay := float64(base)
	for i := 1; i < attempt; i++ {
		delay *= multiplier
		if delay >= float64(ceiling) {
			delay = float64(ceiling)
			break
		}
	}

	jitter := p.Jitter
	if jitter == nil {
		jitter = rand.Float64
	}
	// Spread the delay across [delay*(1-jitterFraction), delay); the upper
	// bound is exclusive, so computed delays stay strictly under the cap.
	total := delay*(1-jitterFraction) + delay*jitterFraction*jitter()
	return time.Duration(total)
}

func (p Policy) maxAttempts() int {
	if p.MaxAttempts <= 0 {
		return defaultMaxAttempts
	}
	return p.MaxAttempts
}

func (p Policy) contentRetries() int {
	if p.ContentRetries <= 0 {
		return defaultContentRetries
	}
	return p.ContentRetries
}
