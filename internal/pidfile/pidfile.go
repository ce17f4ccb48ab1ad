package pidfile

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"burrow/internal/logging"
)

// Handle owns the locked pid file descriptor. The kernel drops the advisory
// lock when the last descriptor referencing the open file closes, so the
// descriptor must stay open (and shielded) for the daemon's lifetime.
type Handle struct {
	path string
	file *os.File
}

// Path returns the absolute pid file path.
func (h *Handle) Path() string {
	return h.path
}

// File exposes the locked file so it can be inherited across process stages.
func (h *Handle) File() *os.File {
	return h.file
}

// Fd returns the raw descriptor for shielding from the descriptor reaper.
func (h *Handle) Fd() uintptr {
	return h.file.Fd()
}

// FromFile rebuilds a handle around an inherited, already-locked descriptor.
// Used by the final daemon stage, which receives the file from its parent
// rather than opening it again.
func FromFile(file *os.File, path string) *Handle {
	return &Handle{path: path, file: file}
}

// Write records the current process id: seek to the start, truncate prior
// content, write the decimal pid with a trailing newline, and fsync so
// concurrent readers observe a consistent value once this returns.
func (h *Handle) Write() error {
	if _, err := h.file.Seek(0, 0); err != nil {
		return fmt.Errorf("seek pid file: %w", err)
	}
	if err := h.file.Truncate(0); err != nil {
		return fmt.Errorf("truncate pid file: %w", err)
	}
	if _, err := fmt.Fprintf(h.file, "%d\n", os.Getpid()); err != nil {
		return fmt.Errorf("write pid file: %w", err)
	}
	if err := h.file.Sync(); err != nil {
		return fmt.Errorf("sync pid file: %w", err)
	}
	return nil
}

// Cleanup closes the descriptor (releasing the lock) and removes the file.
// Failures are logged, never returned: this runs during process teardown
// where nothing can act on the error anymore.
func (h *Handle) Cleanup(logger *slog.Logger) {
	if logger == nil {
		logger = logging.NewNop()
	}
	if h.file != nil {
		if err := h.file.Close(); err != nil {
			logger.Warn("close pid file", logging.String("path", h.path), logging.Error(err))
		}
		h.file = nil
	}
	if err := os.Remove(h.path); err != nil && !os.IsNotExist(err) {
		logger.Warn("remove pid file", logging.String("path", h.path), logging.Error(err))
	}
}

// Read parses the decimal process id stored at path.
func Read(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read pid file: %w", err)
	}
	text := strings.TrimSpace(string(data))
	pid, err := strconv.Atoi(text)
	if err != nil {
		return 0, fmt.Errorf("parse pid file %q: invalid pid %q", path, text)
	}
	if pid <= 0 {
		return 0, fmt.Errorf("parse pid file %q: non-positive pid %d", path, pid)
	}
	return pid, nil
}
