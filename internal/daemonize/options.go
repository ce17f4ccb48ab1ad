package daemonize

import (
	"log/slog"
	"os"

	"burrow/internal/config"
	"burrow/internal/pidfile"
)

// Options is the immutable per-call daemonization configuration.
type Options struct {
	// PidFilePath is the lock/pid file location. Required.
	PidFilePath string
	// WorkDir is the absolute directory the daemon switches to before
	// detaching, so it never pins a mount point. Defaults to "/".
	WorkDir string
	// Umask is applied after session detachment.
	Umask int
	// Stream targets; empty values fall back to the platform null device.
	Stdin  string
	Stdout string
	Stderr string
	// ShieldFDs lists launcher descriptors (>= 3) that must survive into
	// the daemon and be spared by the descriptor sweep.
	ShieldFDs []int
	// FDFallbackLimit bounds the sweep when both rlimits are unlimited.
	FDFallbackLimit int
	// StripFirstArg drops the program name from the argument vector handed
	// back to the daemonized application.
	StripFirstArg bool
}

// FromConfig builds Options from the loaded configuration.
func FromConfig(cfg *config.Config) Options {
	return Options{
		PidFilePath:     cfg.Paths.PidFile,
		WorkDir:         cfg.Paths.WorkDir,
		Umask:           cfg.Process.Umask,
		Stdin:           cfg.Process.StdinTarget,
		Stdout:          cfg.Process.StdoutTarget,
		Stderr:          cfg.Process.StderrTarget,
		ShieldFDs:       cfg.Process.ShieldFDs,
		FDFallbackLimit: cfg.Process.FDFallbackLimit,
		StripFirstArg:   cfg.Process.StripFirstArg,
	}
}

func (o Options) withDefaults() Options {
	if o.WorkDir == "" {
		o.WorkDir = "/"
	}
	if o.FDFallbackLimit <= 0 {
		o.FDFallbackLimit = config.DefaultFDFallbackLimit
	}
	return o
}

// Handle is the daemon-side teardown context. It owns the locked pid file
// and the inherited shielded files; no state is captured in closures. The
// run loop defers Close, which releases the lock and removes the pid file.
type Handle struct {
	pid      *pidfile.Handle
	shielded []*os.File
	args     []string
	logger   *slog.Logger
}

// PidFile exposes the locked pid file handle.
func (h *Handle) PidFile() *pidfile.Handle {
	return h.pid
}

// PidFilePath returns the pid file location for signal relays and chown.
func (h *Handle) PidFilePath() string {
	return h.pid.Path()
}

// ShieldedFiles returns the descriptors carried across the stages, in the
// order they were listed in Options.ShieldFDs.
func (h *Handle) ShieldedFiles() []*os.File {
	return h.shielded
}

// Args returns the daemon's argument vector, with the program name
// stripped when Options.StripFirstArg was set.
func (h *Handle) Args() []string {
	return h.args
}

// Close runs the best-effort teardown: release the pid file lock and
// delete the file. Failures are logged, never raised — this runs while the
// process is exiting.
func (h *Handle) Close() {
	if h.pid != nil {
		h.pid.Cleanup(h.logger)
		h.pid = nil
	}
}
