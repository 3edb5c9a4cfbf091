package source

import (
	"context"
	"fmt"
	"sync"

	"github.com/IBM/sarama"

	"stock-stream-srv/pkg/log"
)

// Subscribe starts one partition consumer per partition of topic and fans them into a single stream.
func (s *implSource) Subscribe(ctx context.Context, topic string, start StartPosition) (Stream, error) {
	partitions, err := s.consumer.Partitions(topic)
	if err != nil {
		s.l.Errorf(ctx, "ingest.delivery.kafka.source.Subscribe: list partitions of %s: %v", topic, err)
		return nil, fmt.Errorf("list partitions of %s: %w", topic, classify(err))
	}
	if len(partitions) == 0 {
		return nil, fmt.Errorf("%w: %s: %w", ErrFatal, topic, ErrNoPartitions)
	}

	st := &stream{
		topic: topic,
		opts:  s.opts,
		l:     s.l,
		msgs:  make(chan *sarama.ConsumerMessage, s.opts.MaxBatchSize),
		errs:  make(chan error, len(partitions)),
		done:  make(chan struct{}),
	}

	for _, p := range partitions {
		offset := initialOffset(start.Initial)
		if o, ok := start.Offsets[p]; ok {
			offset = o
		}

		pc, err := s.consumer.ConsumePartition(topic, p, offset)
		if err != nil {
			s.l.Errorf(ctx, "ingest.delivery.kafka.source.Subscribe: consume %s/%d at %d: %v", topic, p, offset, err)
			_ = st.Close()
			return nil, fmt.Errorf("consume %s/%d at %d: %w", topic, p, offset, classify(err))
		}
		st.pcs = append(st.pcs, pc)
		st.wg.Add(1)
		go st.pump(pc)

		s.l.Infof(ctx, "ingest.delivery.kafka.source.Subscribe: %s/%d starting at %s", topic, p, describeOffset(offset))
	}

	return st, nil
}

func initialOffset(p Policy) int64 {
	if p == PolicyLatest {
		return sarama.OffsetNewest
	}
	return sarama.OffsetOldest
}

func describeOffset(offset int64) string {
	switch offset {
	case sarama.OffsetOldest:
		return "earliest"
	case sarama.OffsetNewest:
		return "latest"
	default:
		return fmt.Sprintf("offset %d", offset)
	}
}

type stream struct {
	topic string
	opts  Options
	l     log.Logger

	pcs  []sarama.PartitionConsumer
	msgs chan *sarama.ConsumerMessage
	errs chan error
	done chan struct{}
	wg   sync.WaitGroup
	once sync.Once
}

// pump forwards one partition into the shared channels, keeping partition order.
func (st *stream) pump(pc sarama.PartitionConsumer) {
	defer st.wg.Done()
	msgs, errs := pc.Messages(), pc.Errors()
	for msgs != nil || errs != nil {
		select {
		case <-st.done:
			return
		case m, ok := <-msgs:
			if !ok {
				msgs = nil
				continue
			}
			select {
			case st.msgs <- m:
			case <-st.done:
				return
			}
		case e, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			if e == nil {
				continue
			}
			var err error = e
			if e.Err != nil {
				err = e.Err
			}
			select {
			case st.errs <- err:
			case <-st.done:
				return
			}
		}
	}
}

func (st *stream) Close() error {
	var firstErr error
	st.once.Do(func() {
		close(st.done)
		for _, pc := range st.pcs {
			if err := pc.Close(); err != nil && firstErr == nil {
				firstErr = err
			}
		}
		st.wg.Wait()
	})
	return firstErr
}
