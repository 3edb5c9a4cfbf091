package deadletter

import (
	"context"
	"time"

	"stock-stream-srv/internal/model"
	pkgKafka "stock-stream-srv/pkg/kafka"
	"stock-stream-srv/pkg/log"
)

// Publisher parks the messages of a batch that could not be decoded.
type Publisher interface {
	Publish(ctx context.Context, batchID int64, batch model.RawBatch, cause error) error
}

type implPublisher struct {
	producer pkgKafka.IProducer
	l        log.Logger
	now      func() time.Time
}

// New creates a Publisher sending envelopes through producer.
func New(producer pkgKafka.IProducer, l log.Logger) Publisher {
	return &implPublisher{
		producer: producer,
		l:        l,
		now:      time.Now,
	}
}
