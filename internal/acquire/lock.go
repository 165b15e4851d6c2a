package acquire

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

const lockFileName = "gridpull.lock"

// acquireRunLock takes an exclusive lock file in the output directory. The
// resume gate's filesystem inspection is only sound when a single process
// works the directory, so a held lock fails the run immediately instead of
// risking interleaved writes.
func acquireRunLock(outDir string) (*flock.Flock, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure output directory: %w", err)
	}
	lock := flock.New(filepath.Join(outDir, lockFileName))
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire run lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("another gridpull run already owns %s", outDir)
	}
	return lock, nil
}
