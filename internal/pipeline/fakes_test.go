package pipeline

import (
	"context"
	"errors"
	"sync"

	checkpointRepo "stock-stream-srv/internal/checkpoint/repository"
	"stock-stream-srv/internal/ingest/delivery/kafka/source"
	"stock-stream-srv/internal/model"
)

type step struct {
	batch model.RawBatch
	err   error
}

type fakeSource struct {
	mu      sync.Mutex
	steps   []step
	started source.StartPosition
	topic   string
	closed  bool
}

func (f *fakeSource) Subscribe(_ context.Context, topic string, start source.StartPosition) (source.Stream, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.topic = topic
	f.started = start
	return &fakeStream{src: f}, nil
}

func (f *fakeSource) startedAt() source.StartPosition {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.started
}

type fakeStream struct {
	src *fakeSource
}

// Next replays the scripted steps, then blocks like an idle topic.
func (s *fakeStream) Next(ctx context.Context) (model.RawBatch, error) {
	s.src.mu.Lock()
	if len(s.src.steps) > 0 {
		st := s.src.steps[0]
		s.src.steps = s.src.steps[1:]
		s.src.mu.Unlock()
		return st.batch, st.err
	}
	s.src.mu.Unlock()
	<-ctx.Done()
	return model.RawBatch{}, ctx.Err()
}

func (s *fakeStream) Close() error {
	s.src.mu.Lock()
	s.src.closed = true
	s.src.mu.Unlock()
	return nil
}

type write struct {
	batchID int64
	records []model.StockRecord
	// checkpointBatch is the committed batch id seen while the write ran.
	checkpointBatch int64
}

type fakeSink struct {
	mu     sync.Mutex
	store  *memStore
	writes []write
	// fail returns the error for the given call number (1-based); nil means succeed.
	fail  func(call int, batchID int64) error
	calls int
	block chan struct{}
	ctxOK []bool
}

func (f *fakeSink) Write(ctx context.Context, batchID int64, records []model.StockRecord) error {
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.ctxOK = append(f.ctxOK, ctx.Err() == nil)
	if f.fail != nil {
		if err := f.fail(f.calls, batchID); err != nil {
			return err
		}
	}
	cpBatch := int64(-1)
	if f.store != nil {
		cpBatch = f.store.get().BatchID
	}
	f.writes = append(f.writes, write{batchID: batchID, records: records, checkpointBatch: cpBatch})
	return nil
}

func (f *fakeSink) snapshot() []write {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]write(nil), f.writes...)
}

type memStore struct {
	mu        sync.Mutex
	cp        *model.Checkpoint
	commits   int
	commitErr error
}

func (m *memStore) Load(context.Context) (model.Checkpoint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cp == nil {
		return model.Checkpoint{}, checkpointRepo.ErrNotFound
	}
	return *m.cp, nil
}

func (m *memStore) Commit(_ context.Context, cp model.Checkpoint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.commitErr != nil {
		return m.commitErr
	}
	m.cp = &cp
	m.commits++
	return nil
}

func (m *memStore) get() model.Checkpoint {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cp == nil {
		return model.Checkpoint{}
	}
	return *m.cp
}

type fakeDeadLetter struct {
	mu      sync.Mutex
	batches []int64
	causes  []error
	err     error
}

func (f *fakeDeadLetter) Publish(_ context.Context, batchID int64, _ model.RawBatch, cause error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.batches = append(f.batches, batchID)
	f.causes = append(f.causes, cause)
	return nil
}

var errDisk = errors.New("disk full")
