package streams

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Bindings names the three standard-stream sinks resolved at detachment time.
type Bindings struct {
	Stdin  string
	Stdout string
	Stderr string
}

// Default returns bindings that discard all streams via the null device.
func Default() Bindings {
	return Bindings{Stdin: os.DevNull, Stdout: os.DevNull, Stderr: os.DevNull}
}

// WithDefaults fills empty sinks with the null device.
func (b Bindings) WithDefaults() Bindings {
	if b.Stdin == "" {
		b.Stdin = os.DevNull
	}
	if b.Stdout == "" {
		b.Stdout = os.DevNull
	}
	if b.Stderr == "" {
		b.Stderr = os.DevNull
	}
	return b
}

// BindError reports a sink that could not be opened. Any bind failure aborts
// daemon startup.
type BindError struct {
	Role string
	Path string
	Err  error
}

func (e *BindError) Error() string {
	return fmt.Sprintf("bind %s to %s: %v", e.Role, e.Path, e.Err)
}

func (e *BindError) Unwrap() error { return e.Err }

// Redirect opens each sink and duplicates its descriptor onto the standard
// fd slots. It must run in the final detached process, after which fds 0/1/2
// reference the configured sinks instead of the severed terminal.
func Redirect(b Bindings) error {
	b = b.WithDefaults()

	// Push out anything buffered before the fd slots are replaced.
	_ = os.Stdout.Sync()
	_ = os.Stderr.Sync()

	stdin, err := os.OpenFile(b.Stdin, os.O_RDONLY, 0)
	if err != nil {
		return &BindError{Role: "stdin", Path: b.Stdin, Err: err}
	}
	defer stdin.Close()

	stdout, err := openSink(b.Stdout)
	if err != nil {
		return &BindError{Role: "stdout", Path: b.Stdout, Err: err}
	}
	defer stdout.Close()

	stderr, err := openSink(b.Stderr)
	if err != nil {
		return &BindError{Role: "stderr", Path: b.Stderr, Err: err}
	}
	defer stderr.Close()

	for _, bind := range []struct {
		file *os.File
		slot int
		role string
	}{
		{stdin, 0, "stdin"},
		{stdout, 1, "stdout"},
		{stderr, 2, "stderr"},
	} {
		if err := dupTo(int(bind.file.Fd()), bind.slot); err != nil {
			return &BindError{Role: bind.role, Path: bind.file.Name(), Err: err}
		}
	}
	return nil
}

func openSink(path string) (*os.File, error) {
	return os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
}

// NewUTF8Writer wraps w so written text is forced into well-formed UTF-8,
// with ill-formed sequences replaced. Redirected log output then round-trips
// regardless of how the environment configured the original streams.
func NewUTF8Writer(w io.Writer) io.WriteCloser {
	return transform.NewWriter(w, unicode.UTF8.NewEncoder())
}
