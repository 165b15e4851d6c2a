package main

import (
	"time"

	"gridpull/internal/config"
	"gridpull/internal/grid"
	"gridpull/internal/nsrdb"
	"gridpull/internal/ratelimit"
	"gridpull/internal/retrypolicy"
)

func gridSpec(cfg *config.Config) grid.Spec {
	return grid.Spec{
		LatMin:   cfg.Grid.LatMin,
		LatMax:   cfg.Grid.LatMax,
		LonMin:   cfg.Grid.LonMin,
		LonMax:   cfg.Grid.LonMax,
		DLat:     cfg.Grid.DLat,
		DLon:     cfg.Grid.DLon,
		Years:    cfg.Grid.Years,
		MaxTasks: cfg.Grid.MaxTasks,
	}
}

func fetchRequest(cfg *config.Config) nsrdb.Request {
	return nsrdb.Request{
		Attributes: cfg.Request.Attributes,
		Interval:   cfg.Request.Interval,
		UTC:        cfg.Request.UTC,
		LeapDay:    cfg.Request.LeapDay,
	}
}

func retryPolicy(cfg *config.Config) retrypolicy.Policy {
	return retrypolicy.Policy{
		MaxAttempts:    cfg.Retry.MaxAttempts,
		BaseDelay:      secondsToDuration(cfg.Retry.BaseDelaySeconds),
		MaxDelay:       secondsToDuration(cfg.Retry.MaxDelaySeconds),
		Multiplier:     cfg.Retry.Multiplier,
		ContentRetries: cfg.Retry.ContentRetries,
	}
}

// rateLimiter prefers the rolling window when configured and falls back to
// the fixed inter-call delay.
func rateLimiter(cfg *config.Config) *ratelimit.Limiter {
	if cfg.Acquire.RateBurst > 0 && cfg.Acquire.RateWindowSeconds > 0 {
		return ratelimit.New(cfg.Acquire.RateBurst, secondsToDuration(cfg.Acquire.RateWindowSeconds))
	}
	return ratelimit.NewInterval(secondsToDuration(cfg.Acquire.SleepBetweenCalls))
}

func secondsToDuration(seconds float64) time.Duration {
	return time.Duration(seconds * float64(time.Second))
}
