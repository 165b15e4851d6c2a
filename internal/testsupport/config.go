package testsupport

import (
	"path/filepath"
	"testing"

	"gridpull/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t   testing.TB
	cfg *config.Config
}

// NewConfig produces a config seeded with unique temp directories and a tiny
// two-task grid per test. It defaults common fields and applies any provided
// options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.OutDir = filepath.Join(base, "data")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.JournalPath = filepath.Join(base, "journal.db")
	cfgVal.Grid.LatMin = 10.0
	cfgVal.Grid.LatMax = 10.25
	cfgVal.Grid.LonMin = 100.0
	cfgVal.Grid.LonMax = 100.0
	cfgVal.Grid.DLat = 0.25
	cfgVal.Grid.DLon = 0.25
	cfgVal.Grid.Years = []int{2020}
	cfgVal.Acquire.SleepBetweenCalls = 0

	builder := &configBuilder{
		t:   t,
		cfg: &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithYears overrides the grid years on the test config.
func WithYears(years ...int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Grid.Years = years
	}
}

// WithWorkers overrides the worker count on the test config.
func WithWorkers(n int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Acquire.Workers = n
	}
}
