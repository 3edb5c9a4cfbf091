package source

import (
	"context"
	"time"

	"github.com/IBM/sarama"

	"stock-stream-srv/internal/model"
)

func (st *stream) Next(ctx context.Context) (model.RawBatch, error) {
	batch := model.RawBatch{EndOffsets: make(map[int32]int64)}

	// Block for the first message. Transient partition errors are retried by sarama.
	for batch.Len() == 0 {
		select {
		case <-ctx.Done():
			return model.RawBatch{}, ctx.Err()
		case <-st.done:
			return model.RawBatch{}, ErrStreamClosed
		case err := <-st.errs:
			if IsFatal(err) {
				return model.RawBatch{}, classify(err)
			}
			st.l.Warnf(ctx, "ingest.delivery.kafka.source.Next: %s: transient error: %v", st.topic, err)
		case m := <-st.msgs:
			add(&batch, m)
		}
	}

	timer := time.NewTimer(st.opts.TriggerInterval)
	defer timer.Stop()

	for batch.Len() < st.opts.MaxBatchSize {
		select {
		case <-ctx.Done():
			// Hand back what was gathered; those messages are already consumed.
			return batch, nil
		case <-st.done:
			return batch, nil
		case <-timer.C:
			return batch, nil
		case err := <-st.errs:
			if IsFatal(err) {
				return model.RawBatch{}, classify(err)
			}
			st.l.Warnf(ctx, "ingest.delivery.kafka.source.Next: %s: transient error: %v", st.topic, err)
		case m := <-st.msgs:
			add(&batch, m)
		}
	}
	return batch, nil
}

func add(batch *model.RawBatch, m *sarama.ConsumerMessage) {
	batch.Messages = append(batch.Messages, model.RawMessage{
		Topic:     m.Topic,
		Partition: m.Partition,
		Offset:    m.Offset,
		Key:       m.Key,
		Value:     m.Value,
		Timestamp: m.Timestamp,
	})
	if next := m.Offset + 1; next > batch.EndOffsets[m.Partition] {
		batch.EndOffsets[m.Partition] = next
	}
}
