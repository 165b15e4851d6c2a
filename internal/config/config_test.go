package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gridpull/internal/config"
)

func validConfigTOML() string {
	return `
[grid]
lat_min = 10.0
lat_max = 10.5
lon_min = 100.0
lon_max = 100.25
dlat = 0.25
dlon = 0.25
years = [2020]
`
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadAppliesDefaultsAroundGrid(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	cfg, resolved, exists, err := config.Load(writeConfig(t, validConfigTOML()))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved == "" {
		t.Fatalf("expected existing resolved config, got exists=%v path=%q", exists, resolved)
	}

	if cfg.Acquire.Workers != 1 {
		t.Fatalf("workers = %d, want default 1", cfg.Acquire.Workers)
	}
	if cfg.Retry.MaxAttempts != 6 {
		t.Fatalf("max_attempts = %d, want default 6", cfg.Retry.MaxAttempts)
	}
	if cfg.Request.Interval != 60 {
		t.Fatalf("interval = %d, want default 60", cfg.Request.Interval)
	}
	if len(cfg.Request.Attributes) == 0 {
		t.Fatal("expected default attributes")
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging defaults: %+v", cfg.Logging)
	}
	if !filepath.IsAbs(cfg.Paths.OutDir) {
		t.Fatalf("out_dir not expanded: %q", cfg.Paths.OutDir)
	}
	if cfg.Resume.SkipFailed {
		t.Fatal("skip_failed should default to false")
	}
}

func TestLoadExpandsTildePaths(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	content := validConfigTOML() + `
[paths]
out_dir = "~/nsrdb"
`
	cfg, _, _, err := config.Load(writeConfig(t, content))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if want := filepath.Join(home, "nsrdb"); cfg.Paths.OutDir != want {
		t.Fatalf("out_dir = %q, want %q", cfg.Paths.OutDir, want)
	}
}

func TestLoadRejectsInvalidGrid(t *testing.T) {
	cases := []struct {
		name    string
		content string
		want    string
	}{
		{
			"missing years",
			strings.Replace(validConfigTOML(), "years = [2020]", "years = []", 1),
			"grid.years",
		},
		{
			"inverted bounds",
			strings.Replace(validConfigTOML(), "lat_max = 10.5", "lat_max = 9.0", 1),
			"lat_min",
		},
		{
			"zero step",
			strings.Replace(validConfigTOML(), "dlat = 0.25", "dlat = 0.0", 1),
			"grid.dlat",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, _, err := config.Load(writeConfig(t, tc.content))
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("Load = %v, want error mentioning %q", err, tc.want)
			}
		})
	}
}

func TestLoadRejectsBadInterval(t *testing.T) {
	content := validConfigTOML() + `
[request]
interval = 15
`
	_, _, _, err := config.Load(writeConfig(t, content))
	if err == nil || !strings.Contains(err.Error(), "interval") {
		t.Fatalf("Load = %v, want interval error", err)
	}
}

func TestLoadMissingFileUsesDefaultsButFailsGridValidation(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	_, _, _, err := config.Load("")
	if err == nil {
		t.Fatal("expected validation error without grid bounds")
	}
}

func TestLoadCredentialsReportsAllMissing(t *testing.T) {
	for _, key := range []string{
		config.EnvAPIKey, config.EnvEmail, config.EnvFullName,
		config.EnvAffiliation, config.EnvReason,
	} {
		t.Setenv(key, "")
	}

	_, err := config.LoadCredentials()
	if err == nil {
		t.Fatal("expected error with empty environment")
	}
	for _, key := range []string{config.EnvAPIKey, config.EnvReason} {
		if !strings.Contains(err.Error(), key) {
			t.Fatalf("error %v should name %s", err, key)
		}
	}
}

func TestLoadCredentialsSucceeds(t *testing.T) {
	t.Setenv(config.EnvAPIKey, "key")
	t.Setenv(config.EnvEmail, "me@example.com")
	t.Setenv(config.EnvFullName, "Me Myself")
	t.Setenv(config.EnvAffiliation, "Example Lab")
	t.Setenv(config.EnvReason, "research")

	creds, err := config.LoadCredentials()
	if err != nil {
		t.Fatalf("LoadCredentials returned error: %v", err)
	}
	if creds.APIKey != "key" || creds.Email != "me@example.com" {
		t.Fatalf("unexpected credentials: %+v", creds)
	}
}

func TestWriteSampleRefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := config.WriteSample(path); err != nil {
		t.Fatalf("WriteSample returned error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "[grid]") {
		t.Fatal("sample config missing [grid] section")
	}
	if err := config.WriteSample(path); err == nil {
		t.Fatal("expected error overwriting existing config")
	}
}
