package pipeline

import "errors"

var (
	// ErrConfig is returned by New and Run for unusable configuration.
	ErrConfig     = errors.New("pipeline: invalid configuration")
	ErrSource     = errors.New("pipeline: source failed")
	ErrCheckpoint = errors.New("pipeline: checkpoint failed")
	ErrDecode     = errors.New("pipeline: batch rejected")
	ErrSink       = errors.New("pipeline: sink failed")
	ErrDeadLetter = errors.New("pipeline: dead-letter publish failed")
)
