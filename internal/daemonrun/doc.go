// Package daemonrun is the daemon side of the lifecycle: it detaches the
// process, drops privileges, wires per-run logging, and runs the hosted
// service until a shutdown signal arrives.
//
// Each run gets a unique id and its own log file under the configured log
// directory, with a stable "burrow.log" pointer to the current run and a
// retention sweep that prunes old runs. Signal handling goes through an
// explicit dispatch table; termination is delivered to the run loop as a
// structured reason, never as control flow hidden in a handler.
//
// Teardown is owned by the daemonization handle: when the run loop returns,
// the pid file lock is released and the file removed, whatever state the
// hosted service left behind.
package daemonrun
