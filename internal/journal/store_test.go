package journal_test

import (
	"path/filepath"
	"testing"
	"time"

	"gridpull/internal/grid"
	"gridpull/internal/journal"
	"gridpull/internal/nsrdb"
	"gridpull/internal/testsupport"
)

func openStore(t *testing.T) *journal.Store {
	t.Helper()
	return testsupport.MustOpenJournal(t, filepath.Join(t.TempDir(), "journal.db"))
}

func TestRunLifecycle(t *testing.T) {
	store := openStore(t)

	started := time.Now().UTC().Truncate(time.Second)
	runID, err := store.BeginRun(started)
	if err != nil {
		t.Fatalf("BeginRun returned error: %v", err)
	}
	if runID == "" {
		t.Fatal("expected a run id")
	}

	task := grid.Task{Year: 2020, Point: grid.Point{Lat: 10.25, Lon: 100.5}}
	results := []journal.TaskResult{
		{RunID: runID, Task: task, Outcome: journal.OutcomeSucceeded, Attempts: 3, Bytes: 2048},
		{RunID: runID, Task: task, Outcome: journal.OutcomeSkipped},
		{RunID: runID, Task: task, Outcome: journal.OutcomeFailed, ErrorKind: nsrdb.KindContentInvalid, Attempts: 6},
	}
	for _, result := range results {
		if err := store.RecordResult(result); err != nil {
			t.Fatalf("RecordResult returned error: %v", err)
		}
	}

	finish := journal.Run{
		ID:         runID,
		FinishedAt: started.Add(time.Minute),
		Succeeded:  1,
		Skipped:    1,
		Failed:     1,
		Bytes:      2048,
	}
	if err := store.FinishRun(finish); err != nil {
		t.Fatalf("FinishRun returned error: %v", err)
	}

	runs, err := store.RecentRuns(10)
	if err != nil {
		t.Fatalf("RecentRuns returned error: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("RecentRuns returned %d runs, want 1", len(runs))
	}
	got := runs[0]
	if got.ID != runID || got.Succeeded != 1 || got.Skipped != 1 || got.Failed != 1 || got.Bytes != 2048 {
		t.Fatalf("unexpected run row: %+v", got)
	}
	if got.FinishedAt.IsZero() {
		t.Fatal("expected finished_at to be set")
	}

	failed, err := store.FailedResults(runID)
	if err != nil {
		t.Fatalf("FailedResults returned error: %v", err)
	}
	if len(failed) != 1 {
		t.Fatalf("FailedResults returned %d rows, want 1", len(failed))
	}
	if failed[0].ErrorKind != nsrdb.KindContentInvalid || failed[0].Attempts != 6 {
		t.Fatalf("unexpected failed row: %+v", failed[0])
	}
	if failed[0].Task != task {
		t.Fatalf("task round-trip mismatch: %+v", failed[0].Task)
	}
}

func TestFinishRunRejectsUnknownID(t *testing.T) {
	store := openStore(t)
	err := store.FinishRun(journal.Run{ID: "no-such-run", FinishedAt: time.Now()})
	if err == nil {
		t.Fatal("expected error for unknown run id")
	}
}

func TestReopenKeepsSchema(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "journal.db")

	store, err := journal.Open(path)
	if err != nil {
		t.Fatalf("first Open returned error: %v", err)
	}
	runID := testsupport.MustBeginRun(t, store)
	if err := store.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}

	reopened, err := journal.Open(path)
	if err != nil {
		t.Fatalf("second Open returned error: %v", err)
	}
	defer reopened.Close()

	runs, err := reopened.RecentRuns(5)
	if err != nil {
		t.Fatalf("RecentRuns returned error: %v", err)
	}
	if len(runs) != 1 || runs[0].ID != runID {
		t.Fatalf("expected persisted run %s, got %+v", runID, runs)
	}
}
