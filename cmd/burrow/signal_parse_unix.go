//go:build unix

package main

import (
	"fmt"
	"strconv"
	"strings"
	"syscall"

	"golang.org/x/sys/unix"
)

// parseSignal resolves a user-supplied signal spec: a number, a bare name
// like TERM, or a full name like SIGTERM.
func parseSignal(spec string) (syscall.Signal, error) {
	trimmed := strings.TrimSpace(spec)
	if trimmed == "" {
		return 0, fmt.Errorf("signal is empty")
	}
	if num, err := strconv.Atoi(trimmed); err == nil {
		if num <= 0 {
			return 0, fmt.Errorf("invalid signal number %d", num)
		}
		return syscall.Signal(num), nil
	}
	name := strings.ToUpper(trimmed)
	if !strings.HasPrefix(name, "SIG") {
		name = "SIG" + name
	}
	if sig := unix.SignalNum(name); sig != 0 {
		return sig, nil
	}
	return 0, fmt.Errorf("unknown signal %q", spec)
}
