// Package streams remaps the standard streams onto file targets during
// daemonization.
//
// The three logical slots (stdin, stdout, stderr) are first planned: target
// paths are deduplicated, and each unique path carries the union of the
// access its slots require, so a path serving both stdin and stdout is
// opened read-write rather than twice. Missing targets are created, each
// unique path is opened exactly once with its minimal sufficient access, and
// the resulting descriptors are duplicated onto slots 0/1/2.
//
// Buffered output on the outgoing stdout/stderr is flushed best-effort
// before the switch; a flush failure is logged and accepted rather than
// treated as fatal.
package streams
