package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateProcess(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if c.Paths.PidFile == "" {
		return errors.New("paths.pid_file must be set")
	}
	if c.Paths.WorkDir == "" {
		return errors.New("paths.work_dir must be set")
	}
	return nil
}

func (c *Config) validateProcess() error {
	if c.Process.Umask < 0 || c.Process.Umask > 0o777 {
		return fmt.Errorf("process.umask %#o out of range", c.Process.Umask)
	}
	for _, fd := range c.Process.ShieldFDs {
		if fd < 3 {
			return fmt.Errorf("process.shield_fds: descriptor %d is a standard stream; only fds >= 3 can be shielded", fd)
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
		return nil
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
}
