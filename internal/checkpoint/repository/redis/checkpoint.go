package redis

import (
	"context"
	"errors"
	"fmt"

	"stock-stream-srv/internal/checkpoint/repository"
	"stock-stream-srv/internal/model"
	pkgRedis "stock-stream-srv/pkg/redis"
)

// Load - GET the checkpoint key
func (r *implRepository) Load(ctx context.Context) (model.Checkpoint, error) {
	raw, err := r.redis.Get(ctx, r.key)
	if err != nil {
		if errors.Is(err, pkgRedis.ErrKeyNotFound) {
			return model.Checkpoint{}, repository.ErrNotFound
		}
		r.l.Errorf(ctx, "checkpoint.repository.redis.Load: %s: %v", r.key, err)
		return model.Checkpoint{}, fmt.Errorf("%w: %w", repository.ErrFailedToLoad, err)
	}
	return repository.Decode([]byte(raw))
}

// Commit - SET the checkpoint key without expiry; a single SET replaces the value atomically
func (r *implRepository) Commit(ctx context.Context, cp model.Checkpoint) error {
	data, err := repository.Encode(cp)
	if err != nil {
		return err
	}
	if err := r.redis.Set(ctx, r.key, data, 0); err != nil {
		r.l.Errorf(ctx, "checkpoint.repository.redis.Commit: %s: %v", r.key, err)
		return fmt.Errorf("%w: %w", repository.ErrFailedToCommit, err)
	}
	return nil
}
