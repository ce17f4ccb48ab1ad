package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeProcess(); err != nil {
		return err
	}
	c.normalizePrivileges()
	c.normalizeLogging()
	c.normalizeControl()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.PidFile) == "" {
		c.Paths.PidFile = defaultPidFile
	}
	if c.Paths.PidFile, err = expandPath(c.Paths.PidFile); err != nil {
		return fmt.Errorf("paths.pid_file: %w", err)
	}
	if strings.TrimSpace(c.Paths.WorkDir) == "" {
		c.Paths.WorkDir = defaultWorkDir
	}
	if c.Paths.WorkDir, err = expandPath(c.Paths.WorkDir); err != nil {
		return fmt.Errorf("paths.work_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeProcess() error {
	var err error
	for name, target := range map[string]*string{
		"process.stdin_target":  &c.Process.StdinTarget,
		"process.stdout_target": &c.Process.StdoutTarget,
		"process.stderr_target": &c.Process.StderrTarget,
	} {
		trimmed := strings.TrimSpace(*target)
		if trimmed == "" {
			*target = os.DevNull
			continue
		}
		if *target, err = expandPath(trimmed); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	if c.Process.FDFallbackLimit <= 0 {
		c.Process.FDFallbackLimit = DefaultFDFallbackLimit
	}
	return nil
}

func (c *Config) normalizePrivileges() {
	c.Privileges.User = strings.TrimSpace(c.Privileges.User)
	c.Privileges.Group = strings.TrimSpace(c.Privileges.Group)
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Logging.RetentionDays < 0 {
		c.Logging.RetentionDays = 0
	}
}

func (c *Config) normalizeControl() {
	if c.Control.StartTimeoutSeconds <= 0 {
		c.Control.StartTimeoutSeconds = defaultStartTimeoutSeconds
	}
	if c.Control.StopGraceSeconds <= 0 {
		c.Control.StopGraceSeconds = defaultStopGraceSeconds
	}
}
