package fdreaper

import (
	"golang.org/x/sys/unix"
)

// closeSpan batches the interval through close_range(2), falling back to
// per-descriptor close on kernels that predate it.
func closeSpan(lo, hi int) error {
	err := unix.CloseRange(uint(lo), uint(hi-1), 0)
	switch err {
	case nil:
		return nil
	case unix.ENOSYS, unix.EINVAL:
		return closeEach(lo, hi)
	default:
		return err
	}
}
