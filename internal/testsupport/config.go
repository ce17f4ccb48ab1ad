// Package testsupport provides shared helpers for package tests.
package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"burrow/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.PidFile = filepath.Join(base, "burrow.pid")
	cfgVal.Paths.WorkDir = base
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Process.StdinTarget = os.DevNull
	cfgVal.Process.StdoutTarget = os.DevNull
	cfgVal.Process.StderrTarget = os.DevNull
	cfgVal.Control.StartTimeoutSeconds = 5
	cfgVal.Control.StopGraceSeconds = 2

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	if err := cfgVal.EnsureDirectories(); err != nil {
		t.Fatalf("ensure config directories: %v", err)
	}

	return builder.cfg
}

// WithStreamTargets points the redirected standard streams at the given paths.
func WithStreamTargets(stdin, stdout, stderr string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Process.StdinTarget = stdin
		b.cfg.Process.StdoutTarget = stdout
		b.cfg.Process.StderrTarget = stderr
	}
}

// WithShieldFDs marks launcher descriptors to survive into the daemon.
func WithShieldFDs(fds ...int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Process.ShieldFDs = fds
	}
}

// WithPrivileges sets the user and group the daemon drops to.
func WithPrivileges(user, group string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Privileges.User = user
		b.cfg.Privileges.Group = group
	}
}

// WithLogFormat overrides the log output format.
func WithLogFormat(format string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Logging.Format = format
	}
}

// BaseDir returns a fresh subdirectory under the test's temp space.
func BaseDir(t testing.TB, cfg *config.Config) string {
	t.Helper()
	return filepath.Dir(cfg.Paths.PidFile)
}
