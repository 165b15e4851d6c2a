package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeRequest()
	c.normalizeAcquire()
	c.normalizeRetry()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.OutDir) == "" {
		c.Paths.OutDir = defaultOutDir
	}
	if c.Paths.OutDir, err = expandPath(c.Paths.OutDir); err != nil {
		return fmt.Errorf("paths.out_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.JournalPath) == "" {
		c.Paths.JournalPath = defaultJournalPath
	}
	if c.Paths.JournalPath, err = expandPath(c.Paths.JournalPath); err != nil {
		return fmt.Errorf("paths.journal_path: %w", err)
	}
	return nil
}

func (c *Config) normalizeRequest() {
	if len(c.Request.Attributes) == 0 {
		c.Request.Attributes = defaultAttributes()
	}
	for i, attr := range c.Request.Attributes {
		c.Request.Attributes[i] = strings.TrimSpace(attr)
	}
	if c.Request.Interval <= 0 {
		c.Request.Interval = defaultInterval
	}
	if c.Request.TimeoutSeconds <= 0 {
		c.Request.TimeoutSeconds = defaultFetchTimeout
	}
	c.Request.BaseURL = strings.TrimSpace(c.Request.BaseURL)
}

func (c *Config) normalizeAcquire() {
	if c.Acquire.Workers <= 0 {
		c.Acquire.Workers = defaultWorkers
	}
	if c.Acquire.SleepBetweenCalls < 0 {
		c.Acquire.SleepBetweenCalls = 0
	}
	if c.Acquire.RateBurst < 0 {
		c.Acquire.RateBurst = 0
	}
	if c.Acquire.RateWindowSeconds < 0 {
		c.Acquire.RateWindowSeconds = 0
	}
}

func (c *Config) normalizeRetry() {
	if c.Retry.MaxAttempts <= 0 {
		c.Retry.MaxAttempts = defaultMaxAttempts
	}
	if c.Retry.BaseDelaySeconds <= 0 {
		c.Retry.BaseDelaySeconds = defaultBaseDelay
	}
	if c.Retry.MaxDelaySeconds <= 0 {
		c.Retry.MaxDelaySeconds = defaultMaxDelay
	}
	if c.Retry.Multiplier <= 1 {
		c.Retry.Multiplier = defaultMultiplier
	}
	if c.Retry.ContentRetries <= 0 {
		c.Retry.ContentRetries = defaultContentRetries
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
