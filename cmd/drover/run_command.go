package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"drover/internal/config"
	"drover/internal/detach"
	"drover/internal/history"
	"drover/internal/lifecycle"
	"drover/internal/logging"
	"drover/internal/pidfile"
	"drover/internal/streams"
)

// newRunCommand is the hidden relaunch target. `start` spawns the session
// leader with this command; the leader spawns the final daemon with it again.
// Running it directly keeps the process in the foreground, which is the
// debugging path.
func newRunCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:    "run",
		Short:  "Run the daemon process in place",
		Hidden: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStage(cmd.Context(), ctx)
		},
	}
}

func runStage(cmdCtx context.Context, ctx *commandContext) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}

	switch detach.Current() {
	case detach.StageLeader:
		// Session leader: finish the environment handoff, spawn the final
		// daemon outside the session leadership, and exit cleanly.
		if err := detach.FinalizeEnvironment(cfg.Daemon.WorkDir); err != nil {
			return err
		}
		if _, err := detach.Promote(detach.Options{
			Args:    []string{"run", "--config", ctx.configPath},
			WorkDir: cfg.Daemon.WorkDir,
		}); err != nil {
			return err
		}
		return nil
	case detach.StageDaemon:
		return runDaemon(cmdCtx, ctx, cfg)
	default:
		// Foreground run: same gate as start, then the daemon body without
		// any detachment.
		if err := pidfile.Check(cfg.Daemon.PidFile); err != nil {
			return err
		}
		return runDaemon(cmdCtx, ctx, cfg)
	}
}

func runDaemon(cmdCtx context.Context, ctx *commandContext, cfg *config.Config) error {
	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("initialize logging: %w", err)
	}

	runID := uuid.NewString()
	logger = logger.With(logging.String("run_id", runID))

	var store *history.Store
	if cfg.History.Enabled {
		store, err = history.Open(cfg.History.Path)
		if err != nil {
			logger.Warn("history ledger unavailable", logging.Error(err))
			store = nil
		} else {
			defer store.Close()
		}
	}

	taskCtx, cancelTask := context.WithCancel(cmdCtx)
	defer cancelTask()
	workDone := make(chan struct{})

	work := func(wctx context.Context) error {
		defer close(workDone)
		if len(cfg.Task.Command) == 0 {
			logger.Warn("no task command configured, exiting after detachment")
			return nil
		}
		return runTask(wctx, cfg, logger)
	}

	onShutdown := func() {
		cancelTask()
		<-workDone
		if store != nil {
			if err := store.RecordEnd(context.Background(), runID, history.OutcomeTerminated); err != nil {
				logger.Warn("record run end", logging.Error(err))
			}
		}
		logger.Info("shutdown complete")
	}

	opts, err := ctx.controllerOptions(logger)
	if err != nil {
		return err
	}
	opts.Work = func(context.Context) error {
		// The controller owns the signal handler; the task watches taskCtx so
		// the shutdown hook can reel it in.
		return work(taskCtx)
	}
	opts.OnShutdown = onShutdown

	ctrl, err := lifecycle.New(opts)
	if err != nil {
		return err
	}

	if store != nil {
		if err := store.RecordStart(context.Background(), runID, os.Getpid(), cfg.Task.Command); err != nil {
			logger.Warn("record run start", logging.Error(err))
		}
	}

	runErr := ctrl.Run(cmdCtx)

	if store != nil {
		outcome := history.OutcomeCompleted
		if runErr != nil {
			outcome = history.OutcomeFailed
		}
		if err := store.RecordEnd(context.Background(), runID, outcome); err != nil {
			logger.Warn("record run end", logging.Error(err))
		}
	}
	return runErr
}

// runTask executes the configured command, inheriting the rebound standard
// streams. Cancellation delivers SIGTERM and escalates to SIGKILL after the
// configured grace period.
func runTask(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	task := exec.CommandContext(ctx, cfg.Task.Command[0], cfg.Task.Command[1:]...)
	task.Stdin = os.Stdin
	// Task output flows through the rebound sinks with invalid byte
	// sequences normalized to valid UTF-8.
	stdout := streams.NewUTF8Writer(os.Stdout)
	defer stdout.Close()
	stderr := streams.NewUTF8Writer(os.Stderr)
	defer stderr.Close()
	task.Stdout = stdout
	task.Stderr = stderr
	task.Cancel = func() error {
		return task.Process.Signal(syscall.SIGTERM)
	}
	task.WaitDelay = time.Duration(cfg.Task.StopGraceSeconds) * time.Second

	logger.Info("task starting", logging.String("command", strings.Join(cfg.Task.Command, " ")))
	err := task.Run()
	if err != nil {
		logger.Error("task exited", logging.Error(err))
		return fmt.Errorf("task %q: %w", cfg.Task.Command[0], err)
	}
	logger.Info("task completed")
	return nil
}
