package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateDaemon(); err != nil {
		return err
	}
	if err := c.validateTask(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateDaemon() error {
	if strings.TrimSpace(c.Daemon.PidFile) == "" {
		return errors.New("daemon.pid_file must be set")
	}
	if strings.TrimSpace(c.Daemon.WorkDir) == "" {
		return errors.New("daemon.work_dir must be set")
	}
	return nil
}

func (c *Config) validateTask() error {
	// An empty command is allowed: the daemon then runs a no-op task and
	// exits immediately after detachment.
	for _, arg := range c.Task.Command {
		if arg == "" {
			return errors.New("task.command must not contain empty arguments")
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
