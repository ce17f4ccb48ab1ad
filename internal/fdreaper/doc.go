// Package fdreaper closes inherited file descriptors during daemonization.
//
// The sweep covers the half-open range [3, limit): descriptors 0-2 are
// reserved for the standard streams and everything in the shielded set is
// skipped. The range is closed in maximal contiguous batches between
// shielded descriptors rather than one descriptor at a time.
//
// The sweep limit prefers the hard RLIMIT_NOFILE, falls back to the soft
// limit when the hard limit is unbounded, and finally to a fixed constant
// when both are unbounded.
package fdreaper
