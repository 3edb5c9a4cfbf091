package deadletter

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"stock-stream-srv/internal/model"
)

// Publish sends every message of batch, in order. It stops at the first producer error
// so the caller can keep the checkpoint where it is.
func (p *implPublisher) Publish(ctx context.Context, batchID int64, batch model.RawBatch, cause error) error {
	reason := ""
	if cause != nil {
		reason = cause.Error()
	}
	failedAt := p.now().UTC()

	for _, m := range batch.Messages {
		env := Envelope{
			ID:        uuid.NewString(),
			BatchID:   batchID,
			Topic:     m.Topic,
			Partition: m.Partition,
			Offset:    m.Offset,
			Key:       m.Key,
			Value:     m.Value,
			Error:     reason,
			FailedAt:  failedAt,
		}
		body, err := json.Marshal(env)
		if err != nil {
			return fmt.Errorf("deadletter: marshal %s/%d@%d: %w", m.Topic, m.Partition, m.Offset, err)
		}
		if err := p.producer.Publish(m.Key, body); err != nil {
			p.l.Errorf(ctx, "ingest.delivery.kafka.deadletter.Publish: batch %d %s/%d@%d: %v", batchID, m.Topic, m.Partition, m.Offset, err)
			return fmt.Errorf("deadletter: publish %s/%d@%d: %w", m.Topic, m.Partition, m.Offset, err)
		}
	}

	p.l.Warnf(ctx, "ingest.delivery.kafka.deadletter.Publish: batch %d: parked %d messages: %s", batchID, batch.Len(), reason)
	return nil
}
