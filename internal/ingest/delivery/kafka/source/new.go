package source

import (
	"github.com/IBM/sarama"

	"stock-stream-srv/pkg/log"
)

type implSource struct {
	consumer sarama.Consumer
	opts     Options
	l        log.Logger
}

// New creates a Source reading through consumer. Zero options fall back to defaults.
func New(consumer sarama.Consumer, opts Options, l log.Logger) Source {
	if opts.MaxBatchSize <= 0 {
		opts.MaxBatchSize = defaultMaxBatchSize
	}
	if opts.TriggerInterval <= 0 {
		opts.TriggerInterval = defaultTriggerInterval
	}
	return &implSource{
		consumer: consumer,
		opts:     opts,
		l:        l,
	}
}
