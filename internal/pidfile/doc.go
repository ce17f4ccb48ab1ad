// Package pidfile owns the exclusive-lock lifecycle of the daemon pid file.
//
// The pid file doubles as the single-instance mutual exclusion object: the
// file is opened and flock'ed exclusively before any process staging happens,
// and the kernel releases the lock only when the last descriptor referencing
// the open file is closed. A Handle therefore owns exactly one descriptor,
// which must be shielded from the descriptor reaper and never duplicated by
// callers.
//
// Acquire before staging, Write after the final daemon process exists, and
// Cleanup during teardown. Cleanup never escalates failures because it runs
// while the process is already exiting.
package pidfile
