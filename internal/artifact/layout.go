package artifact

import (
	"fmt"
	"os"
	"path/filepath"

	"gridpull/internal/grid"
)

const (
	partSuffix   = ".part"
	markerSuffix = ".err.txt"
)

// Layout maps tasks to their on-disk paths under a single output root. The
// mapping is pure and stable across runs; resume correctness depends on it.
type Layout struct {
	Root string
}

// YearDir returns the per-year directory holding a task's artifacts.
func (l Layout) YearDir(task grid.Task) string {
	return filepath.Join(l.Root, fmt.Sprintf("%d", task.Year))
}

// PermanentPath is where the validated CSV lives.
func (l Layout) PermanentPath(task grid.Task) string {
	return filepath.Join(l.YearDir(task), task.Key()+".csv")
}

// TemporaryPath is the .part sibling writes stream into. It shares the
// permanent path's directory so the final rename never crosses filesystems.
func (l Layout) TemporaryPath(task grid.Task) string {
	return l.PermanentPath(task) + partSuffix
}

// MarkerPath is the error-marker sibling recording a failed task.
func (l Layout) MarkerPath(task grid.Task) string {
	return filepath.Join(l.YearDir(task), task.Key()+markerSuffix)
}

// EnsureYearDir creates the task's year directory if needed.
func (l Layout) EnsureYearDir(task grid.Task) error {
	if err := os.MkdirAll(l.YearDir(task), 0o755); err != nil {
		return fmt.Errorf("ensure year dir: %w", err)
	}
	return nil
}
