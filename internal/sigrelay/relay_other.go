//go:build !unix

package sigrelay

import "errors"

// Send is only implemented on Unix platforms.
func Send(pidPath string, sig any) error {
	return errors.New("signal delivery is not supported on this platform")
}

// Deliver is only implemented on Unix platforms.
func Deliver(pid int, sig any) error {
	return errors.New("signal delivery is not supported on this platform")
}

// Ping is only implemented on Unix platforms.
func Ping(pidPath string) bool {
	return false
}
