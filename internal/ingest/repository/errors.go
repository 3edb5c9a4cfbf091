package repository

import (
	"errors"
	"fmt"
)

var (
	ErrFailedToWrite       = errors.New("failed to write batch")
	ErrFailedToEnsureTable = errors.New("failed to ensure table")
)

// SinkError is returned for every failed batch write. The transaction has
// already been rolled back when the caller sees it.
type SinkError struct {
	BatchID   int64
	Retryable bool
	Err       error
}

func (e *SinkError) Error() string {
	return fmt.Sprintf("sink: batch %d: %v", e.BatchID, e.Err)
}

func (e *SinkError) Unwrap() []error {
	return []error{ErrFailedToWrite, e.Err}
}

// IsRetryable reports whether err is a SinkError worth retrying.
func IsRetryable(err error) bool {
	var se *SinkError
	return errors.As(err, &se) && se.Retryable
}
