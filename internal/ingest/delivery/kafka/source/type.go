package source

import (
	"context"
	"time"

	"stock-stream-srv/internal/model"
)

// Policy decides where a partition without a checkpointed offset starts.
type Policy string

const (
	PolicyEarliest Policy = "earliest"
	PolicyLatest   Policy = "latest"
)

// StartPosition is where a subscription begins. Offsets holds the next offset
// to read for partitions that already have a checkpoint; the rest use Initial.
type StartPosition struct {
	Initial Policy
	Offsets map[int32]int64
}

// Options bounds how a batch is gathered.
type Options struct {
	MaxBatchSize    int
	TriggerInterval time.Duration
}

const (
	defaultMaxBatchSize    = 500
	defaultTriggerInterval = time.Second
)

// Source opens streams over one topic.
type Source interface {
	Subscribe(ctx context.Context, topic string, start StartPosition) (Stream, error)
}

// Stream yields micro-batches in partition order.
type Stream interface {
	// Next blocks until at least one message arrives, then keeps gathering until
	// MaxBatchSize messages or TriggerInterval has passed since the first one.
	Next(ctx context.Context) (model.RawBatch, error)
	// Close releases every partition consumer.
	Close() error
}
