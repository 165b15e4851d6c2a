package artifact_test

import (
	"os"
	"strings"
	"testing"

	"gridpull/internal/artifact"
	"gridpull/internal/nsrdb"
	"gridpull/internal/testsupport"
)

func TestDecideRunsWhenNothingExists(t *testing.T) {
	layout := artifact.Layout{Root: t.TempDir()}
	gate := artifact.NewGate(layout)

	decision, err := gate.Decide(testTask())
	if err != nil {
		t.Fatalf("Decide returned error: %v", err)
	}
	if decision != artifact.Run {
		t.Fatalf("Decide = %v, want Run", decision)
	}
}

func TestDecideSkipsValidArtifact(t *testing.T) {
	layout := artifact.Layout{Root: t.TempDir()}
	gate := artifact.NewGate(layout)
	task := testTask()
	testsupport.WriteArtifact(t, layout.PermanentPath(task), testsupport.ValidCSV)

	decision, err := gate.Decide(task)
	if err != nil {
		t.Fatalf("Decide returned error: %v", err)
	}
	if decision != artifact.SkipAlreadyValid {
		t.Fatalf("Decide = %v, want SkipAlreadyValid", decision)
	}
}

func TestDecideDeletesInvalidArtifactAndRuns(t *testing.T) {
	layout := artifact.Layout{Root: t.TempDir()}
	gate := artifact.NewGate(layout)
	task := testTask()
	testsupport.WriteArtifact(t, layout.PermanentPath(task), "not,a\n")

	decision, err := gate.Decide(task)
	if err != nil {
		t.Fatalf("Decide returned error: %v", err)
	}
	if decision != artifact.Run {
		t.Fatalf("Decide = %v, want Run", decision)
	}
	if _, err := os.Stat(layout.PermanentPath(task)); !os.IsNotExist(err) {
		t.Fatal("corrupt permanent file was not deleted")
	}
}

func TestDecideCleansOrphanedTemporary(t *testing.T) {
	layout := artifact.Layout{Root: t.TempDir()}
	gate := artifact.NewGate(layout)
	task := testTask()
	testsupport.WriteArtifact(t, layout.TemporaryPath(task), "half-written junk")

	decision, err := gate.Decide(task)
	if err != nil {
		t.Fatalf("Decide returned error: %v", err)
	}
	if decision != artifact.Run {
		t.Fatalf("Decide = %v, want Run", decision)
	}
	if _, err := os.Stat(layout.TemporaryPath(task)); !os.IsNotExist(err) {
		t.Fatal("orphaned temporary file was not deleted")
	}
}

func TestDecideRetriesMarkedFailuresByDefault(t *testing.T) {
	layout := artifact.Layout{Root: t.TempDir()}
	gate := artifact.NewGate(layout)
	task := testTask()
	if err := artifact.WriteMarker(layout, task, nsrdb.KindTransient, 6, os.ErrDeadlineExceeded); err != nil {
		t.Fatalf("WriteMarker returned error: %v", err)
	}

	decision, err := gate.Decide(task)
	if err != nil {
		t.Fatalf("Decide returned error: %v", err)
	}
	if decision != artifact.RunDespitePriorError {
		t.Fatalf("Decide = %v, want RunDespitePriorError", decision)
	}
}

func TestDecideSkipFailedOptOut(t *testing.T) {
	layout := artifact.Layout{Root: t.TempDir()}
	gate := artifact.NewGate(layout)
	gate.SkipFailed = true
	task := testTask()
	if err := artifact.WriteMarker(layout, task, nsrdb.KindPermanent, 1, os.ErrInvalid); err != nil {
		t.Fatalf("WriteMarker returned error: %v", err)
	}

	decision, err := gate.Decide(task)
	if err != nil {
		t.Fatalf("Decide returned error: %v", err)
	}
	if decision != artifact.SkipPriorFailure {
		t.Fatalf("Decide = %v, want SkipPriorFailure", decision)
	}
}

func TestDecideMarkerIgnoredWhenArtifactValid(t *testing.T) {
	layout := artifact.Layout{Root: t.TempDir()}
	gate := artifact.NewGate(layout)
	task := testTask()
	testsupport.WriteArtifact(t, layout.PermanentPath(task), testsupport.ValidCSV)
	if err := artifact.WriteMarker(layout, task, nsrdb.KindTransient, 2, os.ErrClosed); err != nil {
		t.Fatal(err)
	}

	decision, err := gate.Decide(task)
	if err != nil {
		t.Fatalf("Decide returned error: %v", err)
	}
	if decision != artifact.SkipAlreadyValid {
		t.Fatalf("Decide = %v, want SkipAlreadyValid", decision)
	}
}

func TestDecideIsIdempotentBeforeWrites(t *testing.T) {
	layout := artifact.Layout{Root: t.TempDir()}
	gate := artifact.NewGate(layout)
	task := testTask()
	testsupport.WriteArtifact(t, layout.TemporaryPath(task), "junk")

	first, err := gate.Decide(task)
	if err != nil {
		t.Fatal(err)
	}
	second, err := gate.Decide(task)
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Fatalf("decisions differ: %v then %v", first, second)
	}
}

func TestMarkerRoundTrip(t *testing.T) {
	layout := artifact.Layout{Root: t.TempDir()}
	task := testTask()
	if err := artifact.WriteMarker(layout, task, nsrdb.KindContentInvalid, 3, artifact.ErrNotCSV); err != nil {
		t.Fatalf("WriteMarker returned error: %v", err)
	}

	body, err := os.ReadFile(layout.MarkerPath(task))
	if err != nil {
		t.Fatalf("read marker: %v", err)
	}
	for _, want := range []string{"content_invalid", "attempts: 3", task.Key()} {
		if !strings.Contains(string(body), want) {
			t.Fatalf("marker missing %q:\n%s", want, body)
		}
	}

	artifact.ClearMarker(layout, task)
	if _, err := os.Stat(layout.MarkerPath(task)); !os.IsNotExist(err) {
		t.Fatal("marker survived ClearMarker")
	}
}
