// Package sigrelay delivers signals to a daemon identified only by its pid
// file.
//
// It is usable from any process, daemonized or not: Send reads the decimal
// pid from the file and delivers a signal through kill(2); Ping probes
// liveness with the null signal. A true Ping result only means the pid is
// currently valid in the process table — a very recently exited process
// that has not been reaped yet still answers, and pid reuse can make the
// probe match an unrelated process. Treat it as best-effort.
package sigrelay
