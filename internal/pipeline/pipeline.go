package pipeline

import (
	"context"
	"errors"
	"fmt"
	"maps"

	"github.com/google/uuid"

	checkpointRepo "stock-stream-srv/internal/checkpoint/repository"
	"stock-stream-srv/internal/ingest/delivery/kafka/source"
	"stock-stream-srv/internal/metrics"
	"stock-stream-srv/internal/model"
)

// Run loads the checkpoint, subscribes to the topic and starts the batch loop in
// the background. Cancelling ctx has the same effect as Handle.Stop.
func (p *Pipeline) Run(ctx context.Context) (*Handle, error) {
	runID := uuid.NewString()
	h := newHandle(runID, p.topic, p.now().UTC())

	cp, err := p.store.Load(ctx)
	switch {
	case errors.Is(err, checkpointRepo.ErrNotFound):
		p.l.Infof(ctx, "pipeline.Run: no checkpoint for %s, starting from %s", p.topic, p.start)
		cp = model.Checkpoint{Topic: p.topic, Offsets: map[int32]int64{}}
	case err != nil:
		return nil, fmt.Errorf("%w: load: %w", ErrCheckpoint, err)
	case cp.Topic != "" && cp.Topic != p.topic:
		return nil, fmt.Errorf("%w: checkpoint belongs to topic %q, not %q", ErrConfig, cp.Topic, p.topic)
	default:
		p.l.Infof(ctx, "pipeline.Run: resuming %s after batch %d at %v", p.topic, cp.BatchID, cp.Offsets)
	}
	cp.Topic = p.topic

	stream, err := p.src.Subscribe(ctx, p.topic, source.StartPosition{
		Initial: p.start,
		Offsets: cp.Offsets,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: subscribe: %w", ErrSource, err)
	}

	pullCtx, cancel := context.WithCancel(ctx)
	h.cancel = cancel
	h.update(func(s *Status) {
		s.State = StateRunning
		s.LastBatchID = cp.BatchID
		s.Offsets = maps.Clone(cp.Offsets)
	})

	r := &run{
		Pipeline: p,
		h:        h,
		id:       runID,
		cp:       cp,
		stream:   stream,
	}
	go r.loop(pullCtx, context.WithoutCancel(ctx))

	return h, nil
}

// run is the state of one started loop. Only the loop goroutine touches cp.
type run struct {
	*Pipeline
	h      *Handle
	id     string
	cp     model.Checkpoint
	stream source.Stream
}

func (r *run) loop(pullCtx, procCtx context.Context) {
	var err error
	defer func() {
		if cerr := r.stream.Close(); cerr != nil {
			r.l.Warnf(procCtx, "pipeline.loop: close stream: %v", cerr)
		}
		if err != nil {
			r.l.Errorf(procCtx, "pipeline.loop: %s FAILED after batch %d: %v", r.topic, r.cp.BatchID, err)
		} else {
			r.l.Infof(procCtx, "pipeline.loop: %s STOPPED after batch %d", r.topic, r.cp.BatchID)
		}
		r.h.cancel()
		r.h.finish(err, r.now().UTC())
	}()

	for {
		batch, nerr := r.stream.Next(pullCtx)
		if nerr != nil {
			if pullCtx.Err() != nil {
				return
			}
			metrics.ErrorsTotal.WithLabelValues(metrics.StageSource).Inc()
			err = fmt.Errorf("%w: %w", ErrSource, nerr)
			return
		}

		// The batch runs to completion even if Stop arrives meanwhile.
		if err = r.process(procCtx, batch); err != nil {
			return
		}
		if pullCtx.Err() != nil {
			return
		}
	}
}
