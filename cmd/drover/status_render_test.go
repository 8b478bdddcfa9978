package main

import (
	"strings"
	"testing"
)

func TestRenderStatusLinePlain(t *testing.T) {
	line := renderStatusLine("Daemon", statusOK, "Running (pid 42)", false)
	requireContains(t, line, "Daemon:")
	requireContains(t, line, "[OK] Running (pid 42)")
	if strings.Contains(line, ansiGreen) {
		t.Fatalf("expected no color codes, got %q", line)
	}
}

func TestRenderStatusLineColorized(t *testing.T) {
	line := renderStatusLine("Daemon", statusWarn, "Stale record", true)
	if !strings.HasPrefix(line, ansiYellow) || !strings.HasSuffix(line, ansiReset) {
		t.Fatalf("expected yellow wrapping, got %q", line)
	}
}

func TestRenderSectionHeader(t *testing.T) {
	lines := renderSectionHeader("Daemon Status", false)
	if len(lines) != 2 {
		t.Fatalf("expected header and rule, got %d lines", len(lines))
	}
	requireContains(t, lines[0], "== Daemon Status ==")
	if len(lines[1]) != len(lines[0]) {
		t.Fatalf("rule length %d does not match header %d", len(lines[1]), len(lines[0]))
	}
}

func TestRenderTableIncludesHeadersAndRows(t *testing.T) {
	out := renderTable(
		[]string{"Run", "PID"},
		[][]string{{"abc12345", "42"}},
		[]columnAlignment{alignLeft, alignRight},
	)
	requireContains(t, out, "Run")
	if strings.Contains(out, "RUN") {
		t.Fatalf("expected header case preserved, got %q", out)
	}
	requireContains(t, out, "abc12345")
	requireContains(t, out, "42")
}
