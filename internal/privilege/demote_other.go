//go:build !unix

package privilege

import "errors"

// Demote is only implemented on Unix platforms.
func Demote(pidPath, userSpec, groupSpec string) error {
	if userSpec == "" && groupSpec == "" {
		return nil
	}
	return errors.New("privilege demotion is not supported on this platform")
}
