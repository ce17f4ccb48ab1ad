//go:build unix

package fdreaper

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// SweepLimit resolves the descriptor sweep bound: the hard open-file limit
// when finite, otherwise the soft limit when finite, otherwise fallback.
func SweepLimit(fallback int) int {
	var limit unix.Rlimit
	if err := unix.Getrlimit(unix.RLIMIT_NOFILE, &limit); err != nil {
		return fallback
	}
	if limit.Max != unix.RLIM_INFINITY {
		return int(limit.Max)
	}
	if limit.Cur != unix.RLIM_INFINITY {
		return int(limit.Cur)
	}
	return fallback
}

// CloseInherited closes every descriptor in [3, SweepLimit(fallback)) except
// the shielded set. Descriptors that are not open are skipped silently; any
// other close failure is reported.
func CloseInherited(shielded []int, fallback int) error {
	stop := SweepLimit(fallback)
	for _, span := range Ranges(FirstReapable, stop, shielded) {
		if err := closeSpan(span.Lo, span.Hi); err != nil {
			return fmt.Errorf("close descriptors [%d,%d): %w", span.Lo, span.Hi, err)
		}
	}
	return nil
}

// closeEach is the portable span close: one close(2) per descriptor,
// ignoring EBADF for never-opened slots.
func closeEach(lo, hi int) error {
	for fd := lo; fd < hi; fd++ {
		if err := unix.Close(fd); err != nil && err != unix.EBADF {
			return err
		}
	}
	return nil
}
