//go:build !unix

package main

import (
	"fmt"
	"syscall"
)

func parseSignal(spec string) (syscall.Signal, error) {
	return 0, fmt.Errorf("signal delivery is not supported on this platform")
}
