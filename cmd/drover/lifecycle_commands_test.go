package main

import (
	"os"
	"testing"
)

func TestStopWhenNotRunningReportsAndSucceeds(t *testing.T) {
	env := setupCLITestEnv(t)

	stdout, stderr, err := runCLI(t, env.configPath, "stop")
	if err != nil {
		t.Fatalf("stop: %v", err)
	}
	requireContains(t, stderr, "Daemon is not running")
	if stdout != "" {
		t.Fatalf("expected empty stdout, got %q", stdout)
	}
}

func TestRestartWhenNotRunningReportsAndSucceeds(t *testing.T) {
	env := setupCLITestEnv(t)

	_, stderr, err := runCLI(t, env.configPath, "restart")
	if err != nil {
		t.Fatalf("restart: %v", err)
	}
	requireContains(t, stderr, "Daemon is not running")
}

func TestStopWithMalformedRecordFails(t *testing.T) {
	env := setupCLITestEnv(t)
	if err := os.WriteFile(env.pidFile, []byte("not-a-pid\n"), 0o644); err != nil {
		t.Fatalf("write pid file: %v", err)
	}

	_, _, err := runCLI(t, env.configPath, "stop")
	if err == nil {
		t.Fatal("expected error for malformed identity record")
	}
}

func TestStatusReportsAbsentRecord(t *testing.T) {
	env := setupCLITestEnv(t)

	stdout, _, err := runCLI(t, env.configPath, "status")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	requireContains(t, stdout, "Not running")
	requireContains(t, stdout, env.pidFile)
}

func TestStatusReportsStaleRecord(t *testing.T) {
	env := setupCLITestEnv(t)
	// Beyond any realistic pid namespace, so the liveness probe fails.
	if err := os.WriteFile(env.pidFile, []byte("99999999\n"), 0o644); err != nil {
		t.Fatalf("write pid file: %v", err)
	}

	stdout, _, err := runCLI(t, env.configPath, "status")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	requireContains(t, stdout, "Stale record")
}

func TestStatusReportsMalformedRecord(t *testing.T) {
	env := setupCLITestEnv(t)
	if err := os.WriteFile(env.pidFile, []byte("junk\n"), 0o644); err != nil {
		t.Fatalf("write pid file: %v", err)
	}

	stdout, _, err := runCLI(t, env.configPath, "status")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	requireContains(t, stdout, "malformed")
}

func TestRootWithoutCommandFails(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, env.configPath)
	if err == nil {
		t.Fatal("expected error when no command is given")
	}
}

func TestUnknownCommandFails(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, env.configPath, "bounce")
	if err == nil {
		t.Fatal("expected error for unknown command")
	}
	requireContains(t, err.Error(), "bounce")
}
