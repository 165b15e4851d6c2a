package testsupport

import (
	"testing"
	"time"

	"gridpull/internal/journal"
)

// MustOpenJournal opens a journal.Store for tests and registers cleanup.
func MustOpenJournal(t testing.TB, path string) *journal.Store {
	t.Helper()

	store, err := journal.Open(path)
	if err != nil {
		t.Fatalf("journal.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// MustBeginRun starts a journal run for tests.
func MustBeginRun(t testing.TB, store *journal.Store) string {
	t.Helper()

	runID, err := store.BeginRun(time.Now())
	if err != nil {
		t.Fatalf("store.BeginRun: %v", err)
	}
	return runID
}
