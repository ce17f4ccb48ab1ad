package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains file and directory configuration.
type Paths struct {
	PidFile string `toml:"pid_file"`
	WorkDir string `toml:"work_dir"`
	LogDir  string `toml:"log_dir"`
}

// Process contains settings applied during the daemonization transition.
type Process struct {
	// Umask is the permission mask applied after session detachment.
	Umask int `toml:"umask"`
	// Stream targets; empty values fall back to the platform null device.
	StdinTarget  string `toml:"stdin_target"`
	StdoutTarget string `toml:"stdout_target"`
	StderrTarget string `toml:"stderr_target"`
	// ShieldFDs lists descriptors that must survive the descriptor reaper.
	ShieldFDs []int `toml:"shield_fds"`
	// FDFallbackLimit bounds the reaper sweep when both rlimits are infinite.
	FDFallbackLimit int `toml:"fd_fallback_limit"`
	// StripFirstArg drops the leading argument from the vector returned to
	// the daemonized application.
	StripFirstArg bool `toml:"strip_first_arg"`
}

// Privileges contains the optional post-daemonization identity drop.
// User and Group each accept an account name or a numeric id; empty means
// no change.
type Privileges struct {
	User  string `toml:"user"`
	Group string `toml:"group"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format        string `toml:"format"`
	Level         string `toml:"level"`
	RetentionDays int    `toml:"retention_days"`
}

// Control contains timeouts for out-of-process daemon control.
type Control struct {
	// StartTimeoutSeconds bounds how long `burrow start` waits for the
	// daemonized process to report liveness via its pid file.
	StartTimeoutSeconds int `toml:"start_timeout_seconds"`
	// StopGraceSeconds is the SIGTERM-to-SIGKILL escalation window.
	StopGraceSeconds int `toml:"stop_grace_seconds"`
}

// Config encapsulates all configuration values for burrow.
//
// Configuration sections by subsystem:
//   - Paths: pid file, working directory, log directory
//   - Process: umask, stream targets, shielded fds, reaper fallback limit
//   - Privileges: optional user/group de-escalation
//   - Logging: log format, level, and retention
//   - Control: start/stop timeouts for the CLI
type Config struct {
	Paths      Paths      `toml:"paths"`
	Process    Process    `toml:"process"`
	Privileges Privileges `toml:"privileges"`
	Logging    Logging    `toml:"logging"`
	Control    Control    `toml:"control"`
}

// DefaultConfigPath returns the absolute path to the default configuration
// file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/burrow/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized. It also reports the
// resolved path and whether a file existed there.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("burrow.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories the daemon needs before it can
// acquire its pid file or open log targets.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.Paths.LogDir, filepath.Dir(c.Paths.PidFile)}
	for _, dir := range dirs {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
