//go:build unix

package streams

import (
	"fmt"
	"log/slog"
	"os"

	"golang.org/x/sys/unix"

	"burrow/internal/logging"
)

func (a Access) openFlags() int {
	switch a {
	case ReadOnly:
		return unix.O_RDONLY
	case WriteOnly:
		return unix.O_WRONLY
	default:
		return unix.O_RDWR
	}
}

// Redirect executes the plan: creates missing targets, opens each unique
// path once, flushes the outgoing stdout/stderr, duplicates the new
// descriptors onto slots 0/1/2, and closes the intermediates. The os.Stdin,
// os.Stdout, and os.Stderr handles are rebound to fresh stream objects so
// callers that lost their original handles (headless launchers) still get
// usable streams.
func Redirect(plan Plan, logger *slog.Logger) error {
	if logger == nil {
		logger = logging.NewNop()
	}

	opened := make(map[string]int, len(plan.Targets))
	closeOpened := func() {
		for _, fd := range opened {
			_ = unix.Close(fd)
		}
	}

	for _, target := range plan.Targets {
		if err := ensureExists(target.Path); err != nil {
			closeOpened()
			return err
		}
		fd, err := unix.Open(target.Path, target.Access.openFlags(), 0)
		if err != nil {
			closeOpened()
			return fmt.Errorf("open stream target %q (%s): %w", target.Path, target.Access, err)
		}
		opened[target.Path] = fd
	}

	// With vacant std slots (a headless launcher) an open can land directly
	// on 0, 1, or 2, where a later dup onto that slot would close it before
	// it serves its own stream. Lift those above the std range first.
	for path, fd := range opened {
		if fd > 2 {
			continue
		}
		lifted, err := unix.FcntlInt(uintptr(fd), unix.F_DUPFD, 3)
		if err != nil {
			closeOpened()
			return fmt.Errorf("move stream target %q off descriptor %d: %w", path, fd, err)
		}
		_ = unix.Close(fd)
		opened[path] = lifted
	}

	// Flush whatever is still buffered on the outgoing streams; losing it is
	// acceptable, losing it silently is not.
	flushStd(os.Stdout, "stdout", logger)
	flushStd(os.Stderr, "stderr", logger)

	slots := []struct {
		fd   int
		path string
	}{
		{0, plan.Stdin},
		{1, plan.Stdout},
		{2, plan.Stderr},
	}
	for _, slot := range slots {
		source := opened[slot.path]
		if err := dupTo(source, slot.fd); err != nil {
			closeOpened()
			return fmt.Errorf("bind %q to descriptor %d: %w", slot.path, slot.fd, err)
		}
	}

	for _, fd := range opened {
		if fd > 2 {
			_ = unix.Close(fd)
		}
	}

	os.Stdin = os.NewFile(0, plan.Stdin)
	os.Stdout = os.NewFile(1, plan.Stdout)
	os.Stderr = os.NewFile(2, plan.Stderr)
	return nil
}

func ensureExists(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("stat stream target %q: %w", path, err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("create stream target %q: %w", path, err)
	}
	return file.Close()
}

func flushStd(file *os.File, name string, logger *slog.Logger) {
	if file == nil {
		return
	}
	if err := file.Sync(); err != nil && !isSyncUnsupported(err) {
		logger.Warn("flush before stream redirection failed; buffered output may be lost",
			logging.String("stream", name), logging.Error(err))
	}
}

// Sync on pipes, terminals, and the null device reports EINVAL/ENOTTY/
// ENOTSUP; those are not flush failures.
func isSyncUnsupported(err error) bool {
	if pe, ok := err.(*os.PathError); ok {
		err = pe.Err
	}
	switch err {
	case unix.EINVAL, unix.ENOTTY, unix.ENOTSUP, unix.EBADF:
		return true
	default:
		return false
	}
}
