package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// ValidCSV is a minimal payload that passes artifact validation: a header row
// naming a GHI column plus one data row.
const ValidCSV = "Source,Location ID,GHI Units\nNSRDB,12345,w/m2\n"

// WriteArtifact writes payload to path, creating parent directories. An empty
// payload writes ValidCSV.
func WriteArtifact(t testing.TB, path, payload string) {
	t.Helper()

	if payload == "" {
		payload = ValidCSV
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
