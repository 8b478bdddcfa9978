package pidfile_test

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"drover/internal/pidfile"
)

func TestCheckPassesWhenAbsentAndFailsWhenPresent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "drover.pid")

	if err := pidfile.Check(path); err != nil {
		t.Fatalf("Check on absent record: %v", err)
	}

	if err := pidfile.Commit(path); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	err := pidfile.Check(path)
	if !errors.Is(err, pidfile.ErrAlreadyRunning) {
		t.Fatalf("expected ErrAlreadyRunning, got %v", err)
	}
}

func TestCommitWritesDecimalPidWithNewline(t *testing.T) {
	path := filepath.Join(t.TempDir(), "drover.pid")
	if err := pidfile.Commit(path); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read pid file: %v", err)
	}
	want := strconv.Itoa(os.Getpid()) + "\n"
	if string(data) != want {
		t.Fatalf("pid file content %q, want %q", data, want)
	}

	pid, err := pidfile.Read(path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if pid != os.Getpid() {
		t.Fatalf("Read returned %d, want %d", pid, os.Getpid())
	}
}

func TestReadAbsentReportsNotRunning(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.pid")
	_, err := pidfile.Read(path)
	if !errors.Is(err, pidfile.ErrNotRunning) {
		t.Fatalf("expected ErrNotRunning, got %v", err)
	}
}

func TestReadMalformedReportsParseError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "drover.pid")
	for _, content := range []string{"not-a-pid\n", "-12\n", "0\n"} {
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
		_, err := pidfile.Read(path)
		var parseErr *pidfile.ParseError
		if !errors.As(err, &parseErr) {
			t.Fatalf("content %q: expected ParseError, got %v", content, err)
		}
	}
}

func TestReleaseIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "drover.pid")
	if err := pidfile.Commit(path); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if err := pidfile.Release(path); err != nil {
		t.Fatalf("Release: %v", err)
	}
	if pidfile.Exists(path) {
		t.Fatal("record still present after Release")
	}
	if err := pidfile.Release(path); err != nil {
		t.Fatalf("second Release should be a no-op: %v", err)
	}
}

func TestAliveProbesCurrentProcess(t *testing.T) {
	if !pidfile.Alive(os.Getpid()) {
		t.Fatal("current process should be alive")
	}
	if pidfile.Alive(0) || pidfile.Alive(-1) {
		t.Fatal("non-positive pids are never alive")
	}
}
