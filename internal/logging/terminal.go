package logging

import (
	"os"

	"github.com/mattn/go-isatty"
)

// WriterSupportsColor reports whether the file is attached to a terminal that
// can render ANSI colors. Daemonized processes always fail this check once
// their streams point at regular files or the null device.
func WriterSupportsColor(f *os.File) bool {
	if f == nil {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
