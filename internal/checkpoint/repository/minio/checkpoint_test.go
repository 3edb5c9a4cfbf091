package minio

import (
	"context"
	"errors"
	"testing"

	"stock-stream-srv/internal/checkpoint/repository"
	"stock-stream-srv/internal/model"
	"stock-stream-srv/pkg/log"
	pkgMinio "stock-stream-srv/pkg/minio"
)

type fakeObjects struct {
	objects map[string][]byte
	putErr  error
}

func (f *fakeObjects) PutObject(_ context.Context, bucket, object string, data []byte, _ string) error {
	if f.putErr != nil {
		return f.putErr
	}
	f.objects[bucket+"/"+object] = append([]byte(nil), data...)
	return nil
}

func (f *fakeObjects) GetObject(_ context.Context, bucket, object string) ([]byte, error) {
	data, ok := f.objects[bucket+"/"+object]
	if !ok {
		return nil, &pkgMinio.StorageError{Code: pkgMinio.ErrCodeObjectNotFound, Operation: "get_object"}
	}
	return data, nil
}

func TestMinioStore(t *testing.T) {
	ctx := context.Background()
	objs := &fakeObjects{objects: map[string][]byte{}}
	store := New(objs, "stock-stream-checkpoints", "./checkpoint/Active", log.NewNop())

	if _, err := store.Load(ctx); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	cp := model.Checkpoint{Topic: "Active", BatchID: 11, Offsets: map[int32]int64{2: 33}}
	if err := store.Commit(ctx, cp); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if _, ok := objs.objects["stock-stream-checkpoints/checkpoint/Active/checkpoint.json"]; !ok {
		t.Fatalf("unexpected object layout: %v", objs.objects)
	}

	got, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.BatchID != 11 || got.Offsets[2] != 33 {
		t.Errorf("round trip mismatch: %+v", got)
	}
}

func TestMinioStoreCommitError(t *testing.T) {
	objs := &fakeObjects{objects: map[string][]byte{}, putErr: errors.New("access denied")}
	store := New(objs, "stock-stream-checkpoints", "checkpoint/Active", log.NewNop())
	if err := store.Commit(context.Background(), model.Checkpoint{}); !errors.Is(err, repository.ErrFailedToCommit) {
		t.Fatalf("expected ErrFailedToCommit, got %v", err)
	}
}

func TestObjectKey(t *testing.T) {
	tests := []struct {
		location string
		want     string
	}{
		{"./checkpoint/Active", "checkpoint/Active/checkpoint.json"},
		{"/checkpoint/Active/", "checkpoint/Active/checkpoint.json"},
		{".ckpt/Gainers", ".ckpt/Gainers/checkpoint.json"},
		{"..state/Losers", "..state/Losers/checkpoint.json"},
		{"../outside/Active", "outside/Active/checkpoint.json"},
		{".", "checkpoint.json"},
		{"", "checkpoint.json"},
	}
	for _, tt := range tests {
		if got := objectKey(tt.location); got != tt.want {
			t.Errorf("objectKey(%q) = %q, want %q", tt.location, got, tt.want)
		}
	}
}
