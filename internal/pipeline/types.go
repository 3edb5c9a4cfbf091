package pipeline

import (
	"context"
	"time"

	"stock-stream-srv/internal/model"
)

// State is the lifecycle state of a run.
type State string

const (
	StateInitializing State = "INITIALIZING"
	StateRunning      State = "RUNNING"
	StateStopped      State = "STOPPED"
	StateFailed       State = "FAILED"
)

// SinkErrorPolicy decides what happens to a batch the sink could not write.
type SinkErrorPolicy string

const (
	SinkErrorFail SinkErrorPolicy = "fail"
	SinkErrorSkip SinkErrorPolicy = "skip"
)

// DecodeErrorPolicy decides what happens to a batch that failed decode or transform.
type DecodeErrorPolicy string

const (
	DecodeErrorFail       DecodeErrorPolicy = "fail"
	DecodeErrorDeadLetter DecodeErrorPolicy = "dead_letter"
)

// RetryPolicy bounds sink retries. Only retryable sink errors are retried.
type RetryPolicy struct {
	MaxAttempts int
	Backoff     time.Duration
}

// Sink is the write side of the pipeline.
type Sink interface {
	Write(ctx context.Context, batchID int64, records []model.StockRecord) error
}

// Status is a point-in-time view of a run.
type Status struct {
	State               State           `json:"state"`
	RunID               string          `json:"run_id"`
	Topic               string          `json:"topic"`
	BatchesCommitted    int64           `json:"batches_committed"`
	BatchesSkipped      int64           `json:"batches_skipped"`
	BatchesDeadLettered int64           `json:"batches_dead_lettered"`
	RecordsWritten      int64           `json:"records_written"`
	LastBatchID         int64           `json:"last_batch_id"`
	Offsets             map[int32]int64 `json:"offsets"`
	LastError           string          `json:"last_error,omitempty"`
	StartedAt           time.Time       `json:"started_at"`
	LastBatchAt         *time.Time      `json:"last_batch_at,omitempty"`
	StoppedAt           *time.Time      `json:"stopped_at,omitempty"`
}
