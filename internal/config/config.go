package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	OutDir      string `toml:"out_dir"`
	LogDir      string `toml:"log_dir"`
	JournalPath string `toml:"journal_path"`
}

// Grid describes the bounding box, step sizes, and years to acquire.
type Grid struct {
	LatMin   float64 `toml:"lat_min"`
	LatMax   float64 `toml:"lat_max"`
	LonMin   float64 `toml:"lon_min"`
	LonMax   float64 `toml:"lon_max"`
	DLat     float64 `toml:"dlat"`
	DLon     float64 `toml:"dlon"`
	Years    []int   `toml:"years"`
	MaxTasks int     `toml:"max_tasks"`
}

// Request carries the PSM3 query parameters shared by every task.
type Request struct {
	BaseURL        string   `toml:"base_url"`
	Attributes     []string `toml:"attributes"`
	Interval       int      `toml:"interval"`
	UTC            bool     `toml:"utc"`
	LeapDay        bool     `toml:"leap_day"`
	TimeoutSeconds int      `toml:"timeout_seconds"`
}

// Acquire tunes dispatch: worker count and request pacing.
type Acquire struct {
	Workers           int     `toml:"workers"`
	SleepBetweenCalls float64 `toml:"sleep_between_calls_seconds"`
	RateBurst         int     `toml:"rate_burst"`
	RateWindowSeconds float64 `toml:"rate_window_seconds"`
}

// Retry tunes the per-task retry policy.
type Retry struct {
	MaxAttempts      int     `toml:"max_attempts"`
	BaseDelaySeconds float64 `toml:"base_delay_seconds"`
	MaxDelaySeconds  float64 `toml:"max_delay_seconds"`
	Multiplier       float64 `toml:"multiplier"`
	ContentRetries   int     `toml:"content_retries"`
}

// Resume controls how prior run state is treated.
type Resume struct {
	// SkipFailed leaves tasks with error markers alone instead of retrying
	// them. Default false: failed tasks retry every run.
	SkipFailed bool `toml:"skip_failed"`
}

// Logging contains log output configuration.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates every setting the CLI and orchestrator need.
type Config struct {
	Paths   Paths   `toml:"paths"`
	Grid    Grid    `toml:"grid"`
	Request Request `toml:"request"`
	Acquire Acquire `toml:"acquire"`
	Retry   Retry   `toml:"retry"`
	Resume  Resume  `toml:"resume"`
	Logging Logging `toml:"logging"`
}

// DefaultConfigPath returns the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/gridpull/config.toml")
}

// Load locates, parses, normalizes, and validates a configuration file. With
// an empty path it tries the default location and falls back to defaults when
// no file exists.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}
	return &cfg, resolvedPath, exists, nil
}

// WriteSample writes the embedded sample configuration to path, refusing to
// overwrite an existing file.
func WriteSample(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("ensure config dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	return defaultPath, false, nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}
