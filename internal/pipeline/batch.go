package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"stock-stream-srv/internal/ingest/repository"
	"stock-stream-srv/internal/metrics"
	"stock-stream-srv/internal/model"
)

// process runs one micro-batch to a checkpoint decision. A non-nil error ends the run.
func (r *run) process(ctx context.Context, raw model.RawBatch) error {
	batch := model.MicroBatch{ID: r.cp.BatchID + 1, Source: raw}

	records, err := r.dec.Decode(raw)
	if err != nil {
		metrics.ErrorsTotal.WithLabelValues(metrics.StageDecode).Inc()
		return r.reject(ctx, batch, err)
	}
	records, err = r.tr.Transform(ctx, records)
	if err != nil {
		metrics.ErrorsTotal.WithLabelValues(metrics.StageTransform).Inc()
		return r.reject(ctx, batch, fmt.Errorf("transform: %w", err))
	}
	batch.Records = records

	if err := r.write(ctx, batch); err != nil {
		metrics.ErrorsTotal.WithLabelValues(metrics.StageSink).Inc()
		if r.onSinkErr != SinkErrorSkip {
			metrics.BatchesTotal.WithLabelValues(r.topic, metrics.ResultFailed).Inc()
			return fmt.Errorf("%w: batch %d: %w", ErrSink, batch.ID, err)
		}
		r.l.Warnf(ctx, "pipeline.process: batch %d: skipping %d records after sink error: %v", batch.ID, len(records), err)
		if err := r.commit(ctx, batch); err != nil {
			return err
		}
		metrics.BatchesTotal.WithLabelValues(r.topic, metrics.ResultSkipped).Inc()
		metrics.RecordsTotal.WithLabelValues(r.topic, metrics.ResultSkipped).Add(float64(len(records)))
		r.h.update(func(s *Status) {
			s.BatchesSkipped++
			s.LastError = err.Error()
		})
		return nil
	}

	if err := r.commit(ctx, batch); err != nil {
		return err
	}
	metrics.BatchesTotal.WithLabelValues(r.topic, metrics.ResultCommitted).Inc()
	metrics.RecordsTotal.WithLabelValues(r.topic, metrics.ResultCommitted).Add(float64(len(records)))
	r.h.update(func(s *Status) {
		s.BatchesCommitted++
		s.RecordsWritten += int64(len(records))
	})
	r.l.Debugf(ctx, "pipeline.process: batch %d: %d messages, %d records committed", batch.ID, raw.Len(), len(records))
	return nil
}

// reject applies the decode error policy to a batch that never reached the sink.
func (r *run) reject(ctx context.Context, batch model.MicroBatch, cause error) error {
	if r.onDecodeErr != DecodeErrorDeadLetter {
		metrics.BatchesTotal.WithLabelValues(r.topic, metrics.ResultFailed).Inc()
		return fmt.Errorf("%w: batch %d: %w", ErrDecode, batch.ID, cause)
	}

	if err := r.dlq.Publish(ctx, batch.ID, batch.Source, cause); err != nil {
		metrics.ErrorsTotal.WithLabelValues(metrics.StageDeadLetter).Inc()
		return fmt.Errorf("%w: batch %d: %w", ErrDeadLetter, batch.ID, err)
	}
	if err := r.commit(ctx, batch); err != nil {
		return err
	}
	metrics.BatchesTotal.WithLabelValues(r.topic, metrics.ResultDeadLettered).Inc()
	r.h.update(func(s *Status) {
		s.BatchesDeadLettered++
		s.LastError = cause.Error()
	})
	return nil
}

// write retries retryable sink errors with exponential backoff.
func (r *run) write(ctx context.Context, batch model.MicroBatch) error {
	backoff := r.retry.Backoff
	var err error
	for attempt := 1; attempt <= r.retry.MaxAttempts; attempt++ {
		start := time.Now()
		err = r.sink.Write(ctx, batch.ID, batch.Records)
		metrics.WriteLatency.WithLabelValues(r.topic).Observe(float64(time.Since(start).Milliseconds()))
		if err == nil {
			return nil
		}
		if !repository.IsRetryable(err) || attempt == r.retry.MaxAttempts {
			break
		}
		r.l.Warnf(ctx, "pipeline.write: batch %d attempt %d/%d: %v, retrying in %s", batch.ID, attempt, r.retry.MaxAttempts, err, backoff)
		if serr := r.sleep(ctx, backoff); serr != nil {
			return errors.Join(err, serr)
		}
		backoff *= 2
	}
	return err
}

// commit advances the checkpoint past batch. Failing here leaves durable state unknown, so the run ends.
func (r *run) commit(ctx context.Context, batch model.MicroBatch) error {
	next := r.cp.Advance(batch.ID, batch.Source.EndOffsets, r.id, r.now().UTC())
	if err := r.store.Commit(ctx, next); err != nil {
		metrics.ErrorsTotal.WithLabelValues(metrics.StageCheckpoint).Inc()
		return fmt.Errorf("%w: batch %d: %w", ErrCheckpoint, batch.ID, err)
	}
	r.cp = next
	metrics.ObserveCheckpoint(r.topic, next.Offsets)

	at := next.UpdatedAt
	r.h.update(func(s *Status) {
		s.LastBatchID = next.BatchID
		s.Offsets = next.Offsets
		s.LastBatchAt = &at
	})
	return nil
}
