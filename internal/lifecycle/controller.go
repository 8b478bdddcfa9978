package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	"golang.org/x/sys/unix"

	"drover/internal/detach"
	"drover/internal/logging"
	"drover/internal/pidfile"
	"drover/internal/streams"
)

// ErrAlreadyRunning re-exports the identity guard's gate failure.
var ErrAlreadyRunning = pidfile.ErrAlreadyRunning

// ErrNotRunning re-exports the identity guard's absent-record condition.
// Stop callers treat it as benign.
var ErrNotRunning = pidfile.ErrNotRunning

// State tracks the in-process view of the daemon lifecycle.
type State int32

const (
	StateNotRunning State = iota
	StateStarting
	StateRunning
	StateStopping
)

func (s State) String() string {
	switch s {
	case StateStarting:
		return "starting"
	case StateRunning:
		return "running"
	case StateStopping:
		return "stopping"
	default:
		return "not_running"
	}
}

// WorkFunc is the embedder-supplied work callback, invoked exactly once per
// successful start on the daemon's main goroutine. Callback arguments are
// closure state.
type WorkFunc func(ctx context.Context) error

// DetachFunc launches the staged relaunch and returns the spawned pid.
type DetachFunc func() (int, error)

// Options configures a Controller at construction time.
type Options struct {
	// PidFile is the identity record location. Required.
	PidFile string
	// Bindings are the standard-stream sinks; zero value means null device.
	Bindings streams.Bindings
	// Work defaults to a no-op, in which case the daemon exits immediately
	// after detaching.
	Work WorkFunc
	// OnShutdown runs inside the SIGTERM handler before the process exits
	// with status 1. Default no-op.
	OnShutdown func()
	// Detach overrides the relaunch step; tests inject fakes here. The
	// default spawns the current executable with RelaunchArgs.
	Detach DetachFunc
	// RelaunchArgs is the argv the detached stages re-exec with.
	RelaunchArgs []string
	// Redirect overrides standard-stream rebinding; tests inject stubs so
	// the test process keeps its descriptors. Default streams.Redirect.
	Redirect func(streams.Bindings) error
	// WorkDir is the detached working directory, defaulting to "/".
	WorkDir string
	// Logger receives runtime lifecycle events. Default discards.
	Logger *slog.Logger
	// StopPollInterval is the sleep between record-existence checks while
	// Stop blocks. Never a timeout, only a pacing interval.
	StopPollInterval time.Duration
}

// Controller drives the daemon lifecycle for one identity path.
type Controller struct {
	opts  Options
	state atomic.Int32
}

const defaultStopPollInterval = 50 * time.Millisecond

// New validates options and constructs a Controller.
func New(opts Options) (*Controller, error) {
	if opts.PidFile == "" {
		return nil, errors.New("lifecycle: pid file path is required")
	}
	if opts.Work == nil {
		opts.Work = func(context.Context) error { return nil }
	}
	if opts.OnShutdown == nil {
		opts.OnShutdown = func() {}
	}
	if opts.Logger == nil {
		opts.Logger = logging.NewNop()
	}
	if opts.StopPollInterval <= 0 {
		opts.StopPollInterval = defaultStopPollInterval
	}
	if opts.Redirect == nil {
		opts.Redirect = streams.Redirect
	}
	if opts.Detach == nil {
		detachOpts := detach.Options{Args: opts.RelaunchArgs, WorkDir: opts.WorkDir}
		opts.Detach = func() (int, error) { return detach.Begin(detachOpts) }
	}
	return &Controller{opts: opts}, nil
}

// State returns the in-process lifecycle state.
func (c *Controller) State() State {
	return State(c.state.Load())
}

// PidFile returns the identity record path.
func (c *Controller) PidFile() string {
	return c.opts.PidFile
}

// Start begins detachment from the foreground process. The identity check
// runs here, once, before anything forks; the caller returns success as soon
// as the stage-1 spawn is away. The committed record appears only after the
// final daemon process finishes Run's setup.
func (c *Controller) Start() error {
	c.state.Store(int32(StateStarting))
	if err := pidfile.Check(c.opts.PidFile); err != nil {
		c.state.Store(int32(StateNotRunning))
		return err
	}
	pid, err := c.opts.Detach()
	if err != nil {
		c.state.Store(int32(StateNotRunning))
		return fmt.Errorf("detach: %w", err)
	}
	c.opts.Logger.Info("detachment initiated",
		logging.String("pid_file", c.opts.PidFile),
		logging.Int("leader_pid", pid),
	)
	return nil
}

// Run is the daemon half, executed in the final detached process (or in the
// foreground for debugging). It commits the identity record, rebinds the
// standard streams, installs the SIGTERM handler, and invokes the work
// callback on the calling goroutine. Signal-triggered shutdown runs the
// OnShutdown hook, releases the record, and exits with status 1; a normal
// callback return releases the record and returns the callback's error.
func (c *Controller) Run(ctx context.Context) error {
	lock := flock.New(c.opts.PidFile + ".lock")
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire instance lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("%w (instance lock %s is held)", ErrAlreadyRunning, lock.Path())
	}

	if err := pidfile.Commit(c.opts.PidFile); err != nil {
		_ = lock.Unlock()
		return err
	}

	var releaseOnce sync.Once
	release := func() {
		releaseOnce.Do(func() {
			if err := pidfile.Release(c.opts.PidFile); err != nil {
				fmt.Fprintln(os.Stderr, err)
			}
			if err := lock.Unlock(); err != nil {
				fmt.Fprintf(os.Stderr, "release instance lock: %v\n", err)
			}
		})
	}
	defer release()

	if err := c.opts.Redirect(c.opts.Bindings); err != nil {
		return err
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		sig, ok := <-sigCh
		if !ok {
			return
		}
		c.state.Store(int32(StateStopping))
		c.opts.Logger.Info("termination signal received", logging.String("signal", sig.String()))
		c.opts.OnShutdown()
		release()
		os.Exit(1)
	}()

	c.state.Store(int32(StateRunning))
	c.opts.Logger.Info("daemon running",
		logging.Int("pid", os.Getpid()),
		logging.String("pid_file", c.opts.PidFile),
	)

	workErr := c.opts.Work(ctx)

	if c.State() == StateStopping {
		// The signal handler is mid-shutdown and owns the process exit.
		// Returning here would race it to a zero exit status.
		select {}
	}

	signal.Stop(sigCh)
	close(sigCh)
	release()
	c.state.Store(int32(StateNotRunning))
	return workErr
}

// Stop reads the identity record, signals the recorded process politely, and
// blocks until the record disappears. An absent record reports ErrNotRunning
// without any signal delivery; malformed record content propagates as a
// parse error. There is no timeout: if the target never cleans up, Stop
// waits forever, matching the synchronous-wait contract.
func (c *Controller) Stop() error {
	c.state.Store(int32(StateStopping))
	pid, err := pidfile.Read(c.opts.PidFile)
	if err != nil {
		c.state.Store(int32(StateNotRunning))
		return err
	}

	if err := unix.Kill(pid, unix.SIGTERM); err != nil {
		c.state.Store(int32(StateNotRunning))
		return fmt.Errorf("signal pid %d: %w", pid, err)
	}
	c.opts.Logger.Info("termination requested", logging.Int("pid", pid))

	for pidfile.Exists(c.opts.PidFile) {
		time.Sleep(c.opts.StopPollInterval)
	}
	c.state.Store(int32(StateNotRunning))
	return nil
}

// Restart is Stop immediately followed by Start, with no atomicity between
// the halves: a concurrent third-party start can race into the gap. A
// not-running daemon short-circuits the restart, preserving Stop's benign
// early exit.
func (c *Controller) Restart() error {
	if err := c.Stop(); err != nil {
		return err
	}
	return c.Start()
}

// Status describes the observable daemon state derived from the identity
// record.
type Status struct {
	PidFile string
	PID     int
	Alive   bool
	Err     error
}

// Status inspects the identity record and probes the recorded pid. It never
// mutates anything; a stale record shows up as a pid that is not alive.
func (c *Controller) Status() Status {
	status := Status{PidFile: c.opts.PidFile}
	pid, err := pidfile.Read(c.opts.PidFile)
	if err != nil {
		status.Err = err
		return status
	}
	status.PID = pid
	status.Alive = pidfile.Alive(pid)
	return status
}
