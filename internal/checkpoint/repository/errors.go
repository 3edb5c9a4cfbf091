package repository

import "errors"

var (
	// ErrNotFound means no checkpoint was ever committed at the location.
	ErrNotFound       = errors.New("checkpoint not found")
	ErrCorrupt        = errors.New("checkpoint is corrupt")
	ErrFailedToCommit = errors.New("failed to commit checkpoint")
	ErrFailedToLoad   = errors.New("failed to load checkpoint")
)
