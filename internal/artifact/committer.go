package artifact

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gridpull/internal/grid"
	"gridpull/internal/nsrdb"
)

// Committer writes fetched payloads durably. Payloads stream into the task's
// .part sibling, are validated there, and only then get renamed onto the
// permanent path, so a permanent file observed by anyone is always complete
// and valid.
type Committer struct {
	layout Layout
}

// NewCommitter builds a committer for the given layout.
func NewCommitter(layout Layout) *Committer {
	return &Committer{layout: layout}
}

// Commit persists payload for task and returns the number of bytes written.
// Structural failures return an error wrapping nsrdb.ErrContentInvalid and
// leave no temporary file behind; rename failures are transient.
func (c *Committer) Commit(task grid.Task, payload io.Reader) (int64, error) {
	if err := c.layout.EnsureYearDir(task); err != nil {
		return 0, fmt.Errorf("%w: %v", nsrdb.ErrTransient, err)
	}

	tmpPath := c.layout.TemporaryPath(task)
	written, err := writeTemp(tmpPath, payload)
	if err != nil {
		_ = os.Remove(tmpPath)
		return 0, fmt.Errorf("%w: write temporary: %v", nsrdb.ErrTransient, err)
	}

	if !ValidateFile(tmpPath) {
		_ = os.Remove(tmpPath)
		return 0, fmt.Errorf("%w: %v", nsrdb.ErrContentInvalid, ErrNotCSV)
	}

	if err := os.Rename(tmpPath, c.layout.PermanentPath(task)); err != nil {
		_ = os.Remove(tmpPath)
		return 0, fmt.Errorf("%w: promote artifact: %v", nsrdb.ErrTransient, err)
	}
	return written, nil
}

func writeTemp(path string, payload io.Reader) (int64, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return 0, err
	}

	written, err := io.Copy(f, payload)
	if err != nil {
		_ = f.Close()
		return 0, err
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return 0, err
	}
	return written, f.Close()
}

// CommitBytes is a convenience wrapper for in-memory payloads.
func (c *Committer) CommitBytes(task grid.Task, payload []byte) (int64, error) {
	return c.Commit(task, bytes.NewReader(payload))
}
