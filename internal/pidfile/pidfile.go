package pidfile

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"
)

// ErrAlreadyRunning indicates an identity record already exists at the
// configured path.
var ErrAlreadyRunning = errors.New("daemon already running")

// ErrNotRunning indicates no identity record exists at the configured path.
var ErrNotRunning = errors.New("daemon not running")

// ParseError reports identity record content that is not a valid pid.
type ParseError struct {
	Path    string
	Content string
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("pid file %s: malformed content %q: %v", e.Path, e.Content, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Check fails with ErrAlreadyRunning when a record exists at path. It is the
// single-instance gate and runs before any detachment work.
func Check(path string) error {
	_, err := os.Stat(path)
	if err == nil {
		return fmt.Errorf("%w (pid file %s exists)", ErrAlreadyRunning, path)
	}
	if os.IsNotExist(err) {
		return nil
	}
	return fmt.Errorf("stat pid file %s: %w", path, err)
}

// Commit writes the current process pid to path as decimal text with a
// trailing newline.
func Commit(path string) error {
	return CommitPid(path, os.Getpid())
}

// CommitPid writes an explicit pid to path.
func CommitPid(path string, pid int) error {
	value := strconv.Itoa(pid) + "\n"
	if err := os.WriteFile(path, []byte(value), 0o644); err != nil {
		return fmt.Errorf("write pid file %s: %w", path, err)
	}
	return nil
}

// Read parses the pid stored at path. Absent records report ErrNotRunning;
// malformed content reports a ParseError.
func Read(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, fmt.Errorf("%w (no pid file at %s)", ErrNotRunning, path)
		}
		return 0, fmt.Errorf("read pid file %s: %w", path, err)
	}
	content := strings.TrimSpace(string(data))
	pid, err := strconv.Atoi(content)
	if err != nil {
		return 0, &ParseError{Path: path, Content: content, Err: err}
	}
	if pid <= 0 {
		return 0, &ParseError{Path: path, Content: content, Err: errors.New("pid must be positive")}
	}
	return pid, nil
}

// Release removes the record. A missing record is not an error so the signal
// handler and the normal exit path can both call it.
func Release(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove pid file %s: %w", path, err)
	}
	return nil
}

// Exists reports whether a record is present at path.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Alive probes a pid with the null signal and reports whether the process
// exists.
func Alive(pid int) bool {
	if pid <= 0 {
		return false
	}
	err := unix.Kill(pid, 0)
	return err == nil || errors.Is(err, unix.EPERM)
}
