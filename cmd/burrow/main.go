package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"burrow/internal/daemonize"
)

func main() {
	code := run()
	os.Exit(code)
}

func run() int {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		if errors.Is(err, context.Canceled) {
			return 1
		}
		// Past daemonization stderr points at the redirect target, not a
		// terminal; the prefix tells log readers whose failure this is.
		if daemonize.IsDaemon() {
			fmt.Fprintf(os.Stderr, "burrow[%d]: %v\n", os.Getpid(), err)
		} else {
			fmt.Fprintf(os.Stderr, "burrow: %v\n", err)
		}
		return 1
	}
	return 0
}
