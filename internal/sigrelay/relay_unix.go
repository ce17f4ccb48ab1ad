//go:build unix

package sigrelay

import (
	"errors"
	"fmt"
	"os"
	"syscall"

	"golang.org/x/sys/unix"

	"burrow/internal/pidfile"
)

// Send reads the pid recorded in pidPath and delivers sig to it. The signal
// may be a raw number (int), a syscall.Signal, or any os.Signal backed by
// one.
func Send(pidPath string, sig any) error {
	pid, err := pidfile.Read(pidPath)
	if err != nil {
		return err
	}
	return Deliver(pid, sig)
}

// Deliver sends sig straight to pid, bypassing the pid file. Callers use it
// when they already hold a pid the file can no longer provide.
func Deliver(pid int, sig any) error {
	signum, err := coerceSignal(sig)
	if err != nil {
		return err
	}
	if err := unix.Kill(pid, signum); err != nil {
		return fmt.Errorf("signal %d to pid %d: %w", signum, pid, err)
	}
	return nil
}

// Ping reports whether the process recorded in pidPath is present in the
// process table. It sends signal 0, a pure existence probe: nothing is
// delivered. EPERM counts as alive (the process exists, we just may not
// signal it); every other failure, including an unreadable pid file, is
// reported as not running.
func Ping(pidPath string) bool {
	pid, err := pidfile.Read(pidPath)
	if err != nil {
		return false
	}
	err = unix.Kill(pid, 0)
	if err == nil {
		return true
	}
	return errors.Is(err, unix.EPERM)
}

func coerceSignal(sig any) (syscall.Signal, error) {
	switch value := sig.(type) {
	case syscall.Signal:
		return value, nil
	case int:
		return syscall.Signal(value), nil
	case os.Signal:
		if signum, ok := value.(syscall.Signal); ok {
			return signum, nil
		}
		return 0, fmt.Errorf("os.Signal %v carries no signal number", value)
	default:
		return 0, fmt.Errorf("unsupported signal value %T", sig)
	}
}
