package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"stock-stream-srv/internal/checkpoint/repository"
	"stock-stream-srv/internal/model"
)

// Load - Read checkpoint.json
func (r *implRepository) Load(ctx context.Context) (model.Checkpoint, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return model.Checkpoint{}, repository.ErrNotFound
		}
		r.l.Errorf(ctx, "checkpoint.repository.file.Load: %s: %v", r.path, err)
		return model.Checkpoint{}, fmt.Errorf("%w: %w", repository.ErrFailedToLoad, err)
	}
	return repository.Decode(data)
}

// Commit - Write to a temp file in the same directory and rename it over checkpoint.json
func (r *implRepository) Commit(ctx context.Context, cp model.Checkpoint) error {
	data, err := repository.Encode(cp)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return r.fail(ctx, "mkdir", err)
	}

	tmp, err := os.CreateTemp(r.dir, FileName+".*.tmp")
	if err != nil {
		return r.fail(ctx, "create temp", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return r.fail(ctx, "write", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return r.fail(ctx, "sync", err)
	}
	if err := tmp.Close(); err != nil {
		return r.fail(ctx, "close", err)
	}
	if err := os.Rename(tmpName, r.path); err != nil {
		return r.fail(ctx, "rename", err)
	}
	if err := syncDir(r.dir); err != nil {
		return r.fail(ctx, "sync dir", err)
	}
	return nil
}

// syncDir makes a completed rename in dir durable.
func syncDir(dir string) error {
	d, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer d.Close()
	return d.Sync()
}

func (r *implRepository) fail(ctx context.Context, op string, err error) error {
	r.l.Errorf(ctx, "checkpoint.repository.file.Commit: %s %s: %v", op, r.path, err)
	return fmt.Errorf("%w: %s: %w", repository.ErrFailedToCommit, op, err)
}
