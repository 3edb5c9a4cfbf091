package minio

import (
	"context"
	"fmt"

	"stock-stream-srv/internal/checkpoint/repository"
	"stock-stream-srv/internal/model"
	pkgMinio "stock-stream-srv/pkg/minio"
)

// Load - Fetch the checkpoint object
func (r *implRepository) Load(ctx context.Context) (model.Checkpoint, error) {
	data, err := r.minio.GetObject(ctx, r.bucket, r.object)
	if err != nil {
		if pkgMinio.IsNotFound(err) {
			return model.Checkpoint{}, repository.ErrNotFound
		}
		r.l.Errorf(ctx, "checkpoint.repository.minio.Load: %s/%s: %v", r.bucket, r.object, err)
		return model.Checkpoint{}, fmt.Errorf("%w: %w", repository.ErrFailedToLoad, err)
	}
	return repository.Decode(data)
}

// Commit - Overwrite the checkpoint object; S3 PUTs are atomic per object
func (r *implRepository) Commit(ctx context.Context, cp model.Checkpoint) error {
	data, err := repository.Encode(cp)
	if err != nil {
		return err
	}
	if err := r.minio.PutObject(ctx, r.bucket, r.object, data, pkgMinio.ContentTypeJSON); err != nil {
		r.l.Errorf(ctx, "checkpoint.repository.minio.Commit: %s/%s: %v", r.bucket, r.object, err)
		return fmt.Errorf("%w: %w", repository.ErrFailedToCommit, err)
	}
	return nil
}
