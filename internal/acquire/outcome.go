package acquire

import (
	"gridpull/internal/grid"
	"gridpull/internal/nsrdb"
)

// OutcomeKind is the terminal result of one task in one run.
type OutcomeKind int

const (
	Succeeded OutcomeKind = iota
	Skipped
	Failed
)

func (k OutcomeKind) String() string {
	switch k {
	case Succeeded:
		return "succeeded"
	case Skipped:
		return "skipped"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// TaskOutcome pairs a task with its terminal result.
type TaskOutcome struct {
	Task grid.Task
	Kind OutcomeKind

	// SkipReason explains a Skipped outcome (valid artifact vs. marked
	// failure left alone).
	SkipReason string

	// ErrorKind and Err describe the last failure of a Failed outcome.
	ErrorKind nsrdb.Kind
	Err       error

	// Attempts counts fetch attempts made this run; zero for skips.
	Attempts int

	// Bytes is the payload size committed on success.
	Bytes int64
}

// Summary aggregates every outcome of a run.
type Summary struct {
	Succeeded int
	Skipped   int
	Failed    int
	Bytes     int64

	// FailureKinds counts failed tasks by their last error classification.
	FailureKinds map[nsrdb.Kind]int
}

func (s *Summary) add(outcome TaskOutcome) {
	switch outcome.Kind {
	case Succeeded:
		s.Succeeded++
		s.Bytes += outcome.Bytes
	case Skipped:
		s.Skipped++
	case Failed:
		s.Failed++
		if s.FailureKinds == nil {
			s.FailureKinds = make(map[nsrdb.Kind]int)
		}
		s.FailureKinds[outcome.ErrorKind]++
	}
}

// Total returns the number of tasks that reached a terminal outcome.
func (s Summary) Total() int {
	return s.Succeeded + s.Skipped + s.Failed
}

// HasFailures reports whether any task ended Failed; callers map this to a
// non-zero exit status.
func (s Summary) HasFailures() bool {
	return s.Failed > 0
}
