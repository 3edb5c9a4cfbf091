package pipeline

import (
	"context"
	"fmt"
	"time"

	checkpointRepo "stock-stream-srv/internal/checkpoint/repository"
	"stock-stream-srv/internal/ingest/decoder"
	"stock-stream-srv/internal/ingest/delivery/kafka/deadletter"
	"stock-stream-srv/internal/ingest/delivery/kafka/source"
	"stock-stream-srv/internal/transform"
	"stock-stream-srv/pkg/log"
)

// Config holds everything a run needs. There is no process-wide state; two
// pipelines built from two Configs share nothing.
type Config struct {
	Logger log.Logger
	Topic  string

	// StartingOffsets applies to partitions the checkpoint does not cover.
	StartingOffsets source.Policy
	OnSinkError     SinkErrorPolicy
	OnDecodeError   DecodeErrorPolicy
	SinkRetry       RetryPolicy

	Source      source.Source
	Decoder     decoder.Decoder
	Transformer transform.Transformer
	Sink        Sink
	Checkpoints checkpointRepo.Store
	// DeadLetter is required when OnDecodeError is dead_letter.
	DeadLetter deadletter.Publisher
}

// Pipeline is a configured, not yet started ingestion loop.
type Pipeline struct {
	l           log.Logger
	topic       string
	start       source.Policy
	onSinkErr   SinkErrorPolicy
	onDecodeErr DecodeErrorPolicy
	retry       RetryPolicy

	src   source.Source
	dec   decoder.Decoder
	tr    transform.Transformer
	sink  Sink
	store checkpointRepo.Store
	dlq   deadletter.Publisher

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// New validates cfg and fills defaults: earliest, fail, fail, one attempt.
func New(cfg Config) (*Pipeline, error) {
	p := &Pipeline{
		l:           cfg.Logger,
		topic:       cfg.Topic,
		start:       cfg.StartingOffsets,
		onSinkErr:   cfg.OnSinkError,
		onDecodeErr: cfg.OnDecodeError,
		retry:       cfg.SinkRetry,
		src:         cfg.Source,
		dec:         cfg.Decoder,
		tr:          cfg.Transformer,
		sink:        cfg.Sink,
		store:       cfg.Checkpoints,
		dlq:         cfg.DeadLetter,
		now:         time.Now,
		sleep:       sleepCtx,
	}
	if p.start == "" {
		p.start = source.PolicyEarliest
	}
	if p.onSinkErr == "" {
		p.onSinkErr = SinkErrorFail
	}
	if p.onDecodeErr == "" {
		p.onDecodeErr = DecodeErrorFail
	}
	if p.retry.MaxAttempts <= 0 {
		p.retry.MaxAttempts = 1
	}
	if p.tr == nil {
		p.tr = transform.Identity
	}

	if err := p.validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Pipeline) validate() error {
	switch {
	case p.l == nil:
		return fmt.Errorf("%w: logger is required", ErrConfig)
	case p.topic == "":
		return fmt.Errorf("%w: topic is required", ErrConfig)
	case p.src == nil:
		return fmt.Errorf("%w: source is required", ErrConfig)
	case p.dec == nil:
		return fmt.Errorf("%w: decoder is required", ErrConfig)
	case p.sink == nil:
		return fmt.Errorf("%w: sink is required", ErrConfig)
	case p.store == nil:
		return fmt.Errorf("%w: checkpoint store is required", ErrConfig)
	}
	switch p.start {
	case source.PolicyEarliest, source.PolicyLatest:
	default:
		return fmt.Errorf("%w: unknown starting offsets %q", ErrConfig, p.start)
	}
	switch p.onSinkErr {
	case SinkErrorFail, SinkErrorSkip:
	default:
		return fmt.Errorf("%w: unknown sink error policy %q", ErrConfig, p.onSinkErr)
	}
	switch p.onDecodeErr {
	case DecodeErrorFail:
	case DecodeErrorDeadLetter:
		if p.dlq == nil {
			return fmt.Errorf("%w: dead-letter publisher is required for policy %q", ErrConfig, p.onDecodeErr)
		}
	default:
		return fmt.Errorf("%w: unknown decode error policy %q", ErrConfig, p.onDecodeErr)
	}
	return nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
