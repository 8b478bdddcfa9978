package main

import (
	"log/slog"
	"strings"
	"sync"

	"drover/internal/config"
	"drover/internal/lifecycle"
	"drover/internal/logging"
	"drover/internal/streams"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configPath string
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = resolved
	})
	return c.config, c.configErr
}

func (c *commandContext) configValue() *config.Config {
	cfg, _ := c.ensureConfig()
	return cfg
}

// controller assembles a lifecycle controller for the loaded configuration.
// The relaunch argv points the detached stages at the hidden run command with
// the same resolved config file.
func (c *commandContext) controller(logger *slog.Logger) (*lifecycle.Controller, error) {
	opts, err := c.controllerOptions(logger)
	if err != nil {
		return nil, err
	}
	return lifecycle.New(opts)
}

func (c *commandContext) controllerOptions(logger *slog.Logger) (lifecycle.Options, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return lifecycle.Options{}, err
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return lifecycle.Options{
		PidFile: cfg.Daemon.PidFile,
		Bindings: streams.Bindings{
			Stdin:  cfg.Streams.Stdin,
			Stdout: cfg.Streams.Stdout,
			Stderr: cfg.Streams.Stderr,
		},
		RelaunchArgs: []string{"run", "--config", c.configPath},
		WorkDir:      cfg.Daemon.WorkDir,
		Logger:       logger,
	}, nil
}
