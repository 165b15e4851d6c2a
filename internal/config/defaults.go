package config

const (
	defaultOutDir      = "~/.local/share/gridpull/data"
	defaultLogDir      = "~/.local/share/gridpull/logs"
	defaultJournalPath = "~/.local/share/gridpull/journal.db"

	defaultInterval       = 60
	defaultFetchTimeout   = 120
	defaultMaxTasks       = 1_000_000
	defaultWorkers        = 1
	defaultSleepSeconds   = 0.25
	defaultMaxAttempts    = 6
	defaultBaseDelay      = 1.0
	defaultMaxDelay       = 60.0
	defaultMultiplier     = 2.0
	defaultContentRetries = 2
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
)

func defaultAttributes() []string {
	return []string{"ghi", "dni", "dhi", "air_temperature", "wind_speed"}
}

// Default returns a Config populated with repository defaults. The grid
// section intentionally has no default bounds; a run without them fails
// validation before any network activity.
func Default() Config {
	return Config{
		Paths: Paths{
			OutDir:      defaultOutDir,
			LogDir:      defaultLogDir,
			JournalPath: defaultJournalPath,
		},
		Grid: Grid{
			MaxTasks: defaultMaxTasks,
		},
		Request: Request{
			Attributes:     defaultAttributes(),
			Interval:       defaultInterval,
			TimeoutSeconds: defaultFetchTimeout,
		},
		Acquire: Acquire{
			Workers:           defaultWorkers,
			SleepBetweenCalls: defaultSleepSeconds,
		},
		Retry: Retry{
			MaxAttempts:      defaultMaxAttempts,
			BaseDelaySeconds: defaultBaseDelay,
			MaxDelaySeconds:  defaultMaxDelay,
			Multiplier:       defaultMultiplier,
			ContentRetries:   defaultContentRetries,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
