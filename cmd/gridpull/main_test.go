package main

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gridpull/internal/config"
	"gridpull/internal/testsupport"
)

func setCredentialEnv(t *testing.T) {
	t.Helper()
	t.Setenv(config.EnvAPIKey, "test-key")
	t.Setenv(config.EnvEmail, "cli@example.com")
	t.Setenv(config.EnvFullName, "CLI Test")
	t.Setenv(config.EnvAffiliation, "Testing")
	t.Setenv(config.EnvReason, "integration test")
}

func writeCLIConfig(t *testing.T, baseURL string) (string, string) {
	t.Helper()
	base := t.TempDir()
	outDir := filepath.Join(base, "data")
	content := fmt.Sprintf(`
[paths]
out_dir = %q
log_dir = %q
journal_path = %q

[grid]
lat_min = 10.0
lat_max = 10.25
lon_min = 100.0
lon_max = 100.0
dlat = 0.25
dlon = 0.25
years = [2020]

[request]
base_url = %q

[acquire]
sleep_between_calls_seconds = 0.0

[retry]
base_delay_seconds = 0.001
max_delay_seconds = 0.01
`, outDir, filepath.Join(base, "logs"), filepath.Join(base, "journal.db"), baseURL)

	path := filepath.Join(base, "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path, outDir
}

func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return buf.String(), err
}

func TestRunCommandAcquiresGrid(t *testing.T) {
	setCredentialEnv(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(testsupport.ValidCSV))
	}))
	defer server.Close()

	configPath, outDir := writeCLIConfig(t, server.URL)
	out, err := executeCommand(t, "run", "--config", configPath)
	if err != nil {
		t.Fatalf("run returned error: %v\n%s", err, out)
	}
	if !strings.Contains(out, "succeeded") {
		t.Fatalf("summary table missing:\n%s", out)
	}

	csvs, err := filepath.Glob(filepath.Join(outDir, "2020", "*.csv"))
	if err != nil {
		t.Fatal(err)
	}
	if len(csvs) != 2 {
		t.Fatalf("expected 2 artifacts, found %v", csvs)
	}
}

func TestRunCommandReportsFailures(t *testing.T) {
	setCredentialEnv(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer server.Close()

	configPath, outDir := writeCLIConfig(t, server.URL)
	out, err := executeCommand(t, "run", "--config", configPath)
	if err == nil {
		t.Fatalf("expected failure exit, got success:\n%s", out)
	}
	if !strings.Contains(err.Error(), "failed") {
		t.Fatalf("error should summarize failures: %v", err)
	}

	markers, globErr := filepath.Glob(filepath.Join(outDir, "2020", "*.err.txt"))
	if globErr != nil {
		t.Fatal(globErr)
	}
	if len(markers) != 2 {
		t.Fatalf("expected 2 error markers, found %v", markers)
	}
}

func TestRunCommandRequiresCredentials(t *testing.T) {
	for _, key := range []string{
		config.EnvAPIKey, config.EnvEmail, config.EnvFullName,
		config.EnvAffiliation, config.EnvReason,
	} {
		t.Setenv(key, "")
	}
	configPath, _ := writeCLIConfig(t, "http://127.0.0.1:0")
	_, err := executeCommand(t, "run", "--config", configPath)
	if err == nil || !strings.Contains(err.Error(), config.EnvAPIKey) {
		t.Fatalf("expected missing-credential error, got %v", err)
	}
}

func TestPlanCommandCountsWithoutNetwork(t *testing.T) {
	configPath, _ := writeCLIConfig(t, "http://127.0.0.1:0")
	out, err := executeCommand(t, "plan", "--config", configPath)
	if err != nil {
		t.Fatalf("plan returned error: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Planned requests: 2") {
		t.Fatalf("plan output missing request count:\n%s", out)
	}
}

func TestHistoryCommandListsRuns(t *testing.T) {
	setCredentialEnv(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(testsupport.ValidCSV))
	}))
	defer server.Close()

	configPath, _ := writeCLIConfig(t, server.URL)
	if out, err := executeCommand(t, "run", "--config", configPath); err != nil {
		t.Fatalf("run returned error: %v\n%s", err, out)
	}

	out, err := executeCommand(t, "history", "--config", configPath)
	if err != nil {
		t.Fatalf("history returned error: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Started") {
		t.Fatalf("history output missing table:\n%s", out)
	}
}

func TestConfigInitWritesSample(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")
	out, err := executeCommand(t, "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init returned error: %v\n%s", err, out)
	}
	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "[grid]") {
		t.Fatal("sample config missing [grid] section")
	}
}
