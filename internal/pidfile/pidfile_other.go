//go:build !unix

package pidfile

import (
	"errors"
	"log/slog"
)

// ErrLocked indicates another live process already holds the pid file lock.
var ErrLocked = errors.New("pid file locked by another process")

// Acquire is only implemented on Unix platforms.
func Acquire(path string, logger *slog.Logger) (*Handle, error) {
	return nil, errors.New("pid file locking is not supported on this platform")
}
