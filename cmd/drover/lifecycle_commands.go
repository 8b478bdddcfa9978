package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"drover/internal/lifecycle"
	"drover/internal/pidfile"
)

func newLifecycleCommands(ctx *commandContext) []*cobra.Command {
	startCmd := &cobra.Command{
		Use:   "start",
		Short: "Start the daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, err := ctx.controller(nil)
			if err != nil {
				return err
			}
			if err := ctrl.Start(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Daemon started (pid file: %s)\n", ctrl.PidFile())
			return nil
		},
	}

	stopCmd := &cobra.Command{
		Use:   "stop",
		Short: "Stop the daemon and wait for it to exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, err := ctx.controller(nil)
			if err != nil {
				return err
			}
			err = ctrl.Stop()
			if errors.Is(err, lifecycle.ErrNotRunning) {
				fmt.Fprintln(cmd.ErrOrStderr(), "Daemon is not running")
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Daemon stopped")
			return nil
		},
	}

	restartCmd := &cobra.Command{
		Use:   "restart",
		Short: "Restart the daemon (stop, then start)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, err := ctx.controller(nil)
			if err != nil {
				return err
			}
			err = ctrl.Restart()
			if errors.Is(err, lifecycle.ErrNotRunning) {
				// Matches stop's benign early exit: nothing was running, so
				// nothing is restarted.
				fmt.Fprintln(cmd.ErrOrStderr(), "Daemon is not running")
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Daemon restarted")
			return nil
		},
	}

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show daemon status",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(cmd, ctx)
		},
	}

	return []*cobra.Command{startCmd, stopCmd, restartCmd, statusCmd}
}

func runStatus(cmd *cobra.Command, ctx *commandContext) error {
	cfg := ctx.configValue()
	ctrl, err := ctx.controller(nil)
	if err != nil {
		return err
	}

	stdout := cmd.OutOrStdout()
	colorize := shouldColorize(stdout)

	for _, line := range renderSectionHeader("Daemon Status", colorize) {
		fmt.Fprintln(stdout, line)
	}

	status := ctrl.Status()
	var parseErr *pidfile.ParseError
	switch {
	case errors.Is(status.Err, lifecycle.ErrNotRunning):
		fmt.Fprintln(stdout, renderStatusLine("Daemon", statusInfo, "Not running", colorize))
	case errors.As(status.Err, &parseErr):
		fmt.Fprintln(stdout, renderStatusLine("Daemon", statusError, "Identity record is malformed: "+parseErr.Content, colorize))
	case status.Err != nil:
		return status.Err
	case status.Alive:
		fmt.Fprintln(stdout, renderStatusLine("Daemon", statusOK, "Running (pid "+strconv.Itoa(status.PID)+")", colorize))
	default:
		fmt.Fprintln(stdout, renderStatusLine("Daemon", statusWarn, "Stale record (pid "+strconv.Itoa(status.PID)+" not found)", colorize))
	}
	fmt.Fprintln(stdout, renderStatusLine("Pid file", statusInfo, status.PidFile, colorize))
	if len(cfg.Task.Command) == 0 {
		fmt.Fprintln(stdout, renderStatusLine("Task", statusWarn, "No command configured", colorize))
	} else {
		fmt.Fprintln(stdout, renderStatusLine("Task", statusOK, cfg.Task.Command[0], colorize))
	}
	return nil
}
