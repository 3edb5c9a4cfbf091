package source

import (
	"errors"

	"github.com/IBM/sarama"
)

var (
	// ErrFatal marks source failures that retrying will not fix.
	ErrFatal        = errors.New("source: fatal error")
	ErrStreamClosed = errors.New("source: stream closed")
	ErrNoPartitions = errors.New("source: topic has no partitions")
)

// fatalError keeps the broker error visible to errors.Is while also matching ErrFatal.
type fatalError struct {
	err error
}

func (e *fatalError) Error() string { return "source: fatal: " + e.err.Error() }

func (e *fatalError) Is(target error) bool { return target == ErrFatal }

func (e *fatalError) Unwrap() error { return e.err }

// IsFatal reports whether err stops the stream for good.
func IsFatal(err error) bool {
	switch {
	case errors.Is(err, ErrFatal),
		errors.Is(err, sarama.ErrClosedClient),
		errors.Is(err, sarama.ErrOutOfBrokers),
		errors.Is(err, sarama.ErrOffsetOutOfRange),
		errors.Is(err, sarama.ErrUnknownTopicOrPartition),
		errors.Is(err, sarama.ErrTopicAuthorizationFailed),
		errors.Is(err, sarama.ErrClusterAuthorizationFailed),
		errors.Is(err, sarama.ErrSASLAuthenticationFailed):
		return true
	}
	return false
}

func classify(err error) error {
	if err == nil || errors.Is(err, ErrFatal) {
		return err
	}
	if IsFatal(err) {
		return &fatalError{err: err}
	}
	return err
}
