package artifact

import (
	"fmt"
	"os"
	"time"

	"gridpull/internal/grid"
	"gridpull/internal/nsrdb"
)

// WriteMarker records a task's terminal failure beside its (absent) data so
// the failure is inspectable later without grepping logs. Markers are plain
// text and overwritten wholesale on each failed run.
func WriteMarker(layout Layout, task grid.Task, kind nsrdb.Kind, attempts int, cause error) error {
	if err := layout.EnsureYearDir(task); err != nil {
		return err
	}
	body := fmt.Sprintf(
		"task: %s\nclassification: %s\nattempts: %d\nerror: %v\nrecorded: %s\n",
		task.Key(), kind, attempts, cause, time.Now().UTC().Format(time.RFC3339),
	)
	if err := os.WriteFile(layout.MarkerPath(task), []byte(body), 0o644); err != nil {
		return fmt.Errorf("write error marker: %w", err)
	}
	return nil
}

// ClearMarker removes a stale marker after the task finally succeeds.
func ClearMarker(layout Layout, task grid.Task) {
	_ = os.Remove(layout.MarkerPath(task))
}
