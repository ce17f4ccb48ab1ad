// Package daemonize converts the current foreground process into a
// detached, single-instance background daemon.
//
// Go programs cannot fork() mid-flight, so the classic double fork is
// expressed as two staged re-executions of the current binary, tracked by
// an environment marker. The launcher (stage 0) acquires the pid file lock
// and spawns stage 1 in a new session (Setsid) with the locked descriptor
// inherited; stage 1 applies the umask and spawns stage 2 without Setsid,
// so the final process is not a session leader and can never reacquire a
// controlling terminal. Each parent exits immediately without running
// cleanup — the lock stays with the surviving lineage. Only stage 2
// returns from Daemonize: it writes the final pid, sweeps inherited
// descriptors, redirects the standard streams, and hands the caller an
// explicit teardown Handle.
//
// The ordering invariant of the whole package: the pid file is locked and
// its descriptor shielded before the first stage is spawned, so the lock
// survives into the daemon and is never swept.
//
// Every setup failure here is fatal by contract: the diagnostic is logged
// and the process terminates rather than returning a recoverable error.
package daemonize
