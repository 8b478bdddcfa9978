package streams_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"unicode/utf8"

	"drover/internal/streams"
)

func TestDefaultBindingsUseNullDevice(t *testing.T) {
	b := streams.Default()
	if b.Stdin != os.DevNull || b.Stdout != os.DevNull || b.Stderr != os.DevNull {
		t.Fatalf("unexpected defaults: %+v", b)
	}
}

func TestWithDefaultsFillsEmptySinks(t *testing.T) {
	b := streams.Bindings{Stdout: "/tmp/test.log"}.WithDefaults()
	if b.Stdin != os.DevNull {
		t.Fatalf("stdin should default to null device, got %q", b.Stdin)
	}
	if b.Stdout != "/tmp/test.log" {
		t.Fatalf("stdout binding should be preserved, got %q", b.Stdout)
	}
	if b.Stderr != os.DevNull {
		t.Fatalf("stderr should default to null device, got %q", b.Stderr)
	}
}

func TestRedirectReportsUnopenableSink(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "absent", "input")

	err := streams.Redirect(streams.Bindings{Stdin: missing})
	var bindErr *streams.BindError
	if !errors.As(err, &bindErr) {
		t.Fatalf("expected BindError, got %v", err)
	}
	if bindErr.Role != "stdin" || bindErr.Path != missing {
		t.Fatalf("unexpected bind error details: %+v", bindErr)
	}
}

func TestRedirectReportsUnopenableOutput(t *testing.T) {
	// stdout path inside a missing directory fails before any fd is touched.
	missing := filepath.Join(t.TempDir(), "absent", "task.out")

	err := streams.Redirect(streams.Bindings{Stdout: missing})
	var bindErr *streams.BindError
	if !errors.As(err, &bindErr) {
		t.Fatalf("expected BindError, got %v", err)
	}
	if bindErr.Role != "stdout" {
		t.Fatalf("expected stdout bind failure, got role %q", bindErr.Role)
	}
}

func TestUTF8WriterSanitizesInvalidSequences(t *testing.T) {
	var buf bytes.Buffer
	w := streams.NewUTF8Writer(&buf)

	if _, err := w.Write([]byte("hello \xff\xfe world")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	if !utf8.Valid(buf.Bytes()) {
		t.Fatalf("output is not valid UTF-8: %q", buf.Bytes())
	}
	if !bytes.Contains(buf.Bytes(), []byte("hello")) || !bytes.Contains(buf.Bytes(), []byte("world")) {
		t.Fatalf("valid text was not preserved: %q", buf.Bytes())
	}
}
