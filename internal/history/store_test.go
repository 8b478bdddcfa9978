package history_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/uuid"

	"drover/internal/history"
)

func openStore(t *testing.T) *history.Store {
	t.Helper()
	store, err := history.Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("history.Open: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("close store: %v", err)
		}
	})
	return store
}

func TestRecordStartAndEnd(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	runID := uuid.NewString()

	if err := store.RecordStart(ctx, runID, 4321, []string{"sleep", "60"}); err != nil {
		t.Fatalf("RecordStart: %v", err)
	}

	runs, err := store.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}
	run := runs[0]
	if run.RunID != runID || run.PID != 4321 || run.Command != "sleep 60" {
		t.Fatalf("unexpected run: %+v", run)
	}
	if run.Outcome != history.OutcomeRunning || run.EndedAt != nil {
		t.Fatalf("expected open running row, got %+v", run)
	}

	if err := store.RecordEnd(ctx, runID, history.OutcomeTerminated); err != nil {
		t.Fatalf("RecordEnd: %v", err)
	}
	runs, err = store.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if runs[0].Outcome != history.OutcomeTerminated {
		t.Fatalf("expected terminated outcome, got %q", runs[0].Outcome)
	}
	if runs[0].EndedAt == nil || runs[0].EndedAt.Before(runs[0].StartedAt) {
		t.Fatalf("expected ended_at after started_at, got %+v", runs[0])
	}
}

func TestRecordEndUnknownRun(t *testing.T) {
	store := openStore(t)
	if err := store.RecordEnd(context.Background(), "missing", history.OutcomeCompleted); err == nil {
		t.Fatal("expected error for unknown run id")
	}
}

func TestRecentOrdersNewestFirstAndLimits(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	ids := make([]string, 0, 3)
	for i := 0; i < 3; i++ {
		id := uuid.NewString()
		ids = append(ids, id)
		if err := store.RecordStart(ctx, id, 100+i, []string{"task"}); err != nil {
			t.Fatalf("RecordStart %d: %v", i, err)
		}
	}

	runs, err := store.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected limit of 2, got %d", len(runs))
	}
	if runs[0].RunID != ids[2] {
		t.Fatalf("expected newest run first, got %+v", runs[0])
	}
}

func TestOpenRejectsEmptyPath(t *testing.T) {
	if _, err := history.Open(""); err == nil {
		t.Fatal("expected error for empty path")
	}
}
