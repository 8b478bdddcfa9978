package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizeDaemon(); err != nil {
		return err
	}
	if err := c.normalizeStreams(); err != nil {
		return err
	}
	c.normalizeTask()
	c.normalizeLogging()
	return c.normalizeHistory()
}

func (c *Config) normalizeDaemon() error {
	if strings.TrimSpace(c.Daemon.PidFile) == "" {
		c.Daemon.PidFile = defaultPidFile
	}
	if value, ok := os.LookupEnv("DROVER_PID_FILE"); ok && strings.TrimSpace(value) != "" {
		c.Daemon.PidFile = strings.TrimSpace(value)
	}
	var err error
	if c.Daemon.PidFile, err = expandPath(c.Daemon.PidFile); err != nil {
		return fmt.Errorf("daemon.pid_file: %w", err)
	}
	if strings.TrimSpace(c.Daemon.WorkDir) == "" {
		c.Daemon.WorkDir = defaultWorkDir
	}
	if c.Daemon.WorkDir, err = expandPath(c.Daemon.WorkDir); err != nil {
		return fmt.Errorf("daemon.work_dir: %w", err)
	}
	if strings.TrimSpace(c.Daemon.LogDir) == "" {
		c.Daemon.LogDir = defaultLogDir
	}
	if c.Daemon.LogDir, err = expandPath(c.Daemon.LogDir); err != nil {
		return fmt.Errorf("daemon.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeStreams() error {
	var err error
	if c.Streams.Stdin = strings.TrimSpace(c.Streams.Stdin); c.Streams.Stdin == "" {
		c.Streams.Stdin = os.DevNull
	} else if c.Streams.Stdin, err = expandPath(c.Streams.Stdin); err != nil {
		return fmt.Errorf("streams.stdin: %w", err)
	}
	if c.Streams.Stdout = strings.TrimSpace(c.Streams.Stdout); c.Streams.Stdout == "" {
		c.Streams.Stdout = os.DevNull
	} else if c.Streams.Stdout, err = expandPath(c.Streams.Stdout); err != nil {
		return fmt.Errorf("streams.stdout: %w", err)
	}
	if c.Streams.Stderr = strings.TrimSpace(c.Streams.Stderr); c.Streams.Stderr == "" {
		c.Streams.Stderr = os.DevNull
	} else if c.Streams.Stderr, err = expandPath(c.Streams.Stderr); err != nil {
		return fmt.Errorf("streams.stderr: %w", err)
	}
	return nil
}

func (c *Config) normalizeTask() {
	trimmed := make([]string, 0, len(c.Task.Command))
	for _, arg := range c.Task.Command {
		trimmed = append(trimmed, strings.TrimSpace(arg))
	}
	c.Task.Command = trimmed
	if c.Task.StopGraceSeconds <= 0 {
		c.Task.StopGraceSeconds = defaultStopGraceSeconds
	}
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
}

func (c *Config) normalizeHistory() error {
	if strings.TrimSpace(c.History.Path) == "" {
		c.History.Path = defaultHistoryPath
	}
	var err error
	if c.History.Path, err = expandPath(c.History.Path); err != nil {
		return fmt.Errorf("history.path: %w", err)
	}
	return nil
}
