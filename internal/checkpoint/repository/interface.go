package repository

import (
	"context"

	"stock-stream-srv/internal/model"
)

//go:generate mockery --name Store
type Store interface {
	// Load returns the last committed checkpoint, or ErrNotFound.
	Load(ctx context.Context) (model.Checkpoint, error)
	// Commit replaces the checkpoint. A reader sees either the old or the new value, never a mix.
	Commit(ctx context.Context, cp model.Checkpoint) error
}
