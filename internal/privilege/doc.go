// Package privilege performs the optional post-daemonization identity drop.
//
// The order is a correctness invariant: the pid file is chowned to the
// target identity first, while the process is still privileged, so the
// de-escalated daemon keeps permission to delete its own lock file at
// teardown. The group id drops before the user id, because dropping the
// user first can remove the permission needed to change group. Any
// resolution or syscall failure aborts before privilege state is partially
// changed.
package privilege
