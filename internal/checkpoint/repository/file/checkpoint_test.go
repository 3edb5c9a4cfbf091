package file

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"stock-stream-srv/internal/checkpoint/repository"
	"stock-stream-srv/internal/model"
	"stock-stream-srv/pkg/log"
)

func TestLoadMissing(t *testing.T) {
	store := New(filepath.Join(t.TempDir(), "Gainers"), log.NewNop())
	if _, err := store.Load(context.Background()); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCommitThenLoad(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "checkpoint", "Gainers")
	store := New(dir, log.NewNop())
	ctx := context.Background()

	cp := model.Checkpoint{
		Topic:     "Gainers",
		BatchID:   4,
		Offsets:   map[int32]int64{0: 120, 1: 7},
		RunID:     "run-1",
		UpdatedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
	if err := store.Commit(ctx, cp); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	got, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.BatchID != 4 || got.Offsets[0] != 120 || got.Offsets[1] != 7 || got.RunID != "run-1" {
		t.Errorf("round trip mismatch: %+v", got)
	}

	cp.BatchID = 5
	cp.Offsets = map[int32]int64{0: 130, 1: 7}
	if err := store.Commit(ctx, cp); err != nil {
		t.Fatalf("second Commit: %v", err)
	}
	got, _ = store.Load(ctx)
	if got.BatchID != 5 || got.Offsets[0] != 130 {
		t.Errorf("second commit not visible: %+v", got)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != FileName {
		t.Errorf("temp files left behind: %v", entries)
	}
}

func TestLoadCorrupt(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := New(dir, log.NewNop()).Load(context.Background()); !errors.Is(err, repository.ErrCorrupt) {
		t.Fatalf("expected ErrCorrupt, got %v", err)
	}
}

func TestSyncDir(t *testing.T) {
	if err := syncDir(t.TempDir()); err != nil {
		t.Errorf("syncDir(existing) = %v, want nil", err)
	}
	if err := syncDir(filepath.Join(t.TempDir(), "missing")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("syncDir(missing) = %v, want os.ErrNotExist", err)
	}
}
