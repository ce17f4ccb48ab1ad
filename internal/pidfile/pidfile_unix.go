//go:build unix

package pidfile

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"

	"burrow/internal/logging"
)

// ErrLocked indicates another live process already holds the pid file lock.
var ErrLocked = errors.New("pid file locked by another process")

// Acquire opens the pid file (creating it when absent) and takes a
// non-blocking exclusive flock on it. An existing file only means a previous
// instance once ran; if locking succeeds the stale content will be
// overwritten, so a warning is logged rather than an error raised. Open or
// lock failures are returned for the caller to treat as fatal — Acquire
// never blocks waiting for the lock.
func Acquire(path string, logger *slog.Logger) (*Handle, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve pid file path: %w", err)
	}

	if _, statErr := os.Stat(abs); statErr == nil {
		logger.Warn("pid file already exists; it will be overwritten after locking succeeds",
			logging.String("path", abs))
	}

	file, err := os.OpenFile(abs, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open pid file %q: %w", abs, err)
	}

	if err := unix.Flock(int(file.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		_ = file.Close()
		if errors.Is(err, unix.EWOULDBLOCK) {
			return nil, fmt.Errorf("lock pid file %q: %w", abs, ErrLocked)
		}
		return nil, fmt.Errorf("lock pid file %q: %w", abs, err)
	}

	return &Handle{path: abs, file: file}, nil
}
