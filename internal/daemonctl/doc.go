// Package daemonctl orchestrates the daemon's lifecycle from the outside:
// starting a detached instance, waiting for it to come up, stopping it, and
// reporting whether it is alive.
//
// The daemon's only control surface is its pid file and signals. Liveness is
// probed with a null signal against the recorded pid, start requests launch
// the binary's hidden run command, and stop requests deliver SIGTERM with a
// bounded grace period before escalating to SIGKILL.
//
// Concurrent start invocations are serialized with a flock on a launch lock
// file next to the pid file, so two racing "start" commands cannot both spawn
// a daemon and fight over the pid file lock.
package daemonctl
