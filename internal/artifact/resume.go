package artifact

import (
	"fmt"
	"os"

	"gridpull/internal/grid"
)

// Decision is the resume gate's verdict for one task.
type Decision int

const (
	// Run means no trustworthy artifact exists; the task must execute.
	Run Decision = iota
	// SkipAlreadyValid means a valid permanent artifact already exists.
	SkipAlreadyValid
	// RunDespitePriorError means a prior run left an error marker; the task
	// runs again by default so every run moves toward completeness.
	RunDespitePriorError
	// SkipPriorFailure means an error marker exists and the gate was
	// configured to leave failed tasks alone.
	SkipPriorFailure
)

func (d Decision) String() string {
	switch d {
	case SkipAlreadyValid:
		return "skip_already_valid"
	case RunDespitePriorError:
		return "run_despite_prior_error"
	case SkipPriorFailure:
		return "skip_prior_failure"
	default:
		return "run"
	}
}

// Gate inspects on-disk state and decides whether a task needs to run.
type Gate struct {
	layout Layout

	// SkipFailed opts into treating error markers as skips instead of the
	// default retry-every-run behavior.
	SkipFailed bool
}

// NewGate builds a gate over the given layout.
func NewGate(layout Layout) *Gate {
	return &Gate{layout: layout}
}

// Decide returns the verdict for task. It deletes untrustworthy leftovers
// (invalid permanent files, orphaned .part files) as it inspects, but is
// idempotent: a second call before any write returns the same decision.
func (g *Gate) Decide(task grid.Task) (Decision, error) {
	permanent := g.layout.PermanentPath(task)
	if exists(permanent) {
		if ValidateFile(permanent) {
			return SkipAlreadyValid, nil
		}
		// Never trust a pre-existing file blindly: an invalid permanent file
		// is prior corruption and must be rebuilt.
		if err := os.Remove(permanent); err != nil {
			return Run, fmt.Errorf("remove corrupt artifact: %w", err)
		}
		return Run, nil
	}

	if tmp := g.layout.TemporaryPath(task); exists(tmp) {
		// Orphan from an interrupted run; its contents are unknowable.
		if err := os.Remove(tmp); err != nil {
			return Run, fmt.Errorf("remove orphaned temporary: %w", err)
		}
	}

	if exists(g.layout.MarkerPath(task)) {
		if g.SkipFailed {
			return SkipPriorFailure, nil
		}
		return RunDespitePriorError, nil
	}
	return Run, nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
