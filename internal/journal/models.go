package journal

import (
	"time"

	"gridpull/internal/grid"
	"gridpull/internal/nsrdb"
)

// Outcome labels stored in task_results.outcome.
const (
	OutcomeSucceeded = "succeeded"
	OutcomeSkipped   = "skipped"
	OutcomeFailed    = "failed"
)

// Run summarizes one orchestrator invocation.
type Run struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time
	Succeeded  int
	Skipped    int
	Failed     int
	Bytes      int64
}

// TaskResult is one terminal task outcome inside a run.
type TaskResult struct {
	RunID     string
	Task      grid.Task
	Outcome   string
	ErrorKind nsrdb.Kind
	Attempts  int
	Bytes     int64
}

// Recorder is the narrow interface the orchestrator writes through. Tests
// substitute an in-memory implementation; a nil Recorder is a no-op.
type Recorder interface {
	BeginRun(startedAt time.Time) (string, error)
	RecordResult(result TaskResult) error
	FinishRun(run Run) error
}

func kindFromLabel(label string) nsrdb.Kind {
	for _, kind := range []nsrdb.Kind{
		nsrdb.KindRateLimited,
		nsrdb.KindTransient,
		nsrdb.KindPermanent,
		nsrdb.KindContentInvalid,
	} {
		if kind.String() == label {
			return kind
		}
	}
	return nsrdb.KindUnknown
}
