package detach

import (
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"syscall"

	"golang.org/x/sys/unix"
)

// StageEnv marks relaunched processes with their detachment stage.
const StageEnv = "DROVER_STAGE"

// Stage identifies a process's position in the detachment sequence.
type Stage int

const (
	// StageForeground is the process the user launched.
	StageForeground Stage = iota
	// StageLeader is the intermediate session leader between the two spawns.
	StageLeader
	// StageDaemon is the final detached process.
	StageDaemon
)

func (s Stage) String() string {
	switch s {
	case StageLeader:
		return "leader"
	case StageDaemon:
		return "daemon"
	default:
		return "foreground"
	}
}

// Current reads the detachment stage from the process environment.
func Current() Stage {
	switch strings.TrimSpace(os.Getenv(StageEnv)) {
	case "1":
		return StageLeader
	case "2":
		return StageDaemon
	default:
		return StageForeground
	}
}

// SpawnError reports a failed stage spawn, the analogue of a failed fork.
type SpawnError struct {
	Stage Stage
	Err   error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("spawn %s stage: %v", e.Stage, e.Err)
}

func (e *SpawnError) Unwrap() error { return e.Err }

// Options controls the staged relaunch.
type Options struct {
	// Executable defaults to the current binary.
	Executable string
	// Args is the argv (without the program name) for the relaunched process.
	Args []string
	// WorkDir is the detached working directory; defaults to the filesystem
	// root so the daemon never pins a mount point.
	WorkDir string
}

// Begin spawns the stage-1 process as the leader of a fresh session. The
// calling foreground process must treat a nil error as "detachment
// initiated" and return success without waiting.
func Begin(opts Options) (int, error) {
	return spawn(opts, StageLeader, &syscall.SysProcAttr{Setsid: true})
}

// Promote spawns the final daemon inside the current session. Only the
// stage-1 leader calls this, and it must exit 0 immediately afterwards so
// the daemon is reparented and is not a session leader.
func Promote(opts Options) (int, error) {
	return spawn(opts, StageDaemon, nil)
}

// FinalizeEnvironment applies the in-between-forks process state: no file
// creation mask, working directory per options.
func FinalizeEnvironment(workDir string) error {
	unix.Umask(0)
	if workDir == "" {
		workDir = "/"
	}
	if err := os.Chdir(workDir); err != nil {
		return fmt.Errorf("chdir %s: %w", workDir, err)
	}
	return nil
}

func spawn(opts Options, next Stage, attr *syscall.SysProcAttr) (int, error) {
	exe := opts.Executable
	if exe == "" {
		resolved, err := os.Executable()
		if err != nil {
			return 0, &SpawnError{Stage: next, Err: fmt.Errorf("resolve executable: %w", err)}
		}
		exe = resolved
	}

	cmd := exec.Command(exe, opts.Args...)
	cmd.Dir = opts.WorkDir
	if cmd.Dir == "" {
		cmd.Dir = "/"
	}
	cmd.Env = append(environWithout(StageEnv), StageEnv+"="+strconv.Itoa(int(next)))
	cmd.SysProcAttr = attr
	// Stdin and stdout start on the null device. Stderr stays inherited so
	// fatal setup failures in the relaunched stages reach the launching
	// terminal; the daemon replaces fd 2 itself once it rebinds streams.
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		return 0, &SpawnError{Stage: next, Err: err}
	}
	pid := cmd.Process.Pid
	if err := cmd.Process.Release(); err != nil {
		return 0, &SpawnError{Stage: next, Err: fmt.Errorf("release process: %w", err)}
	}
	return pid, nil
}

func environWithout(key string) []string {
	env := os.Environ()
	kept := env[:0]
	prefix := key + "="
	for _, entry := range env {
		if strings.HasPrefix(entry, prefix) {
			continue
		}
		kept = append(kept, entry)
	}
	return kept
}
