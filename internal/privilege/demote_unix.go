//go:build unix

package privilege

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// Syscall seams, replaced in tests to observe ordering without actually
// changing the process identity.
var (
	chownPath = os.Chown
	setGID    = unix.Setgid
	setUID    = unix.Setuid
)

// Demote drops the process to the given user and group identity. Either
// spec may be empty to keep the corresponding id unchanged.
//
// The pid file at pidPath is chowned first, while still privileged: this
// both keeps the lock file deletable by the de-escalated daemon and acts as
// an implicit existence check for the target identity. The group drops
// strictly before the user.
func Demote(pidPath, userSpec, groupSpec string) error {
	uid, err := ResolveUser(userSpec)
	if err != nil {
		return err
	}
	gid, err := ResolveGroup(groupSpec)
	if err != nil {
		return err
	}
	if uid == keepID && gid == keepID {
		return nil
	}

	if pidPath != "" {
		if err := chownPath(pidPath, uid, gid); err != nil {
			return fmt.Errorf("chown pid file %q: %w", pidPath, err)
		}
	}

	if gid != keepID {
		if err := setGID(gid); err != nil {
			return fmt.Errorf("drop group to %d: %w", gid, err)
		}
	}
	if uid != keepID {
		if err := setUID(uid); err != nil {
			return fmt.Errorf("drop user to %d: %w", uid, err)
		}
	}
	return nil
}
