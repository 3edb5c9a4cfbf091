package pipeline

import (
	"context"
	"maps"
	"sync"
	"time"
)

// Handle controls a started run.
type Handle struct {
	cancel context.CancelFunc
	done   chan struct{}

	mu     sync.RWMutex
	status Status
	err    error
}

func newHandle(runID, topic string, startedAt time.Time) *Handle {
	return &Handle{
		done: make(chan struct{}),
		status: Status{
			State:     StateInitializing,
			RunID:     runID,
			Topic:     topic,
			Offsets:   map[int32]int64{},
			StartedAt: startedAt,
		},
	}
}

// AwaitTermination blocks until the run ends or ctx is done. It returns nil for
// STOPPED and the terminating error for FAILED.
func (h *Handle) AwaitTermination(ctx context.Context) error {
	select {
	case <-h.done:
		h.mu.RLock()
		defer h.mu.RUnlock()
		return h.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop stops pulling new batches and waits for the in-flight batch to finish.
// It returns ctx.Err() if ctx ends first; the run still halts afterwards.
func (h *Handle) Stop(ctx context.Context) error {
	h.cancel()
	select {
	case <-h.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Done is closed once the run reached STOPPED or FAILED.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

func (h *Handle) Status() Status {
	h.mu.RLock()
	defer h.mu.RUnlock()
	s := h.status
	s.Offsets = maps.Clone(h.status.Offsets)
	return s
}

func (h *Handle) update(fn func(s *Status)) {
	h.mu.Lock()
	fn(&h.status)
	h.mu.Unlock()
}

func (h *Handle) finish(err error, at time.Time) {
	h.mu.Lock()
	h.err = err
	h.status.StoppedAt = &at
	if err != nil {
		h.status.State = StateFailed
		h.status.LastError = err.Error()
	} else {
		h.status.State = StateStopped
	}
	h.mu.Unlock()
	close(h.done)
}
