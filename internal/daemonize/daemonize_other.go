//go:build !unix

package daemonize

import (
	"fmt"
	"log/slog"
	"os"
)

// Stage identifies which re-exec generation the current process is. Always
// zero on platforms without daemonization support.
func Stage() int {
	return 0
}

// IsDaemon reports whether Daemonize has already run in this process
// lineage. Always false on platforms without daemonization support.
func IsDaemon() bool {
	return false
}

// Daemonize is only implemented on Unix platforms.
func Daemonize(opts Options, logger *slog.Logger) *Handle {
	fmt.Fprintln(os.Stderr, "burrow: daemonization is not supported on this platform")
	os.Exit(1)
	return nil
}
