package deadletter

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"stock-stream-srv/internal/model"
	"stock-stream-srv/pkg/log"
)

type sent struct {
	key, value []byte
}

type fakeProducer struct {
	sent   []sent
	failAt int
}

func (f *fakeProducer) Publish(key, value []byte) error {
	if f.failAt > 0 && len(f.sent)+1 == f.failAt {
		return errors.New("broker down")
	}
	f.sent = append(f.sent, sent{key: key, value: value})
	return nil
}

func (f *fakeProducer) Close() error       { return nil }
func (f *fakeProducer) HealthCheck() error { return nil }

func testBatch() model.RawBatch {
	return model.RawBatch{
		Messages: []model.RawMessage{
			{Topic: "Gainers", Partition: 0, Offset: 7, Key: []byte("GAIN"), Value: []byte(`[{"symbol":"AAPL"}]`)},
			{Topic: "Gainers", Partition: 1, Offset: 3, Value: []byte(`not json`)},
		},
		EndOffsets: map[int32]int64{0: 8, 1: 4},
	}
}

func TestPublish(t *testing.T) {
	fp := &fakeProducer{}
	pub := New(fp, log.NewNop()).(*implPublisher)
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	pub.now = func() time.Time { return fixed }

	if err := pub.Publish(context.Background(), 12, testBatch(), errors.New("missing price")); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if len(fp.sent) != 2 {
		t.Fatalf("expected 2 envelopes, got %d", len(fp.sent))
	}

	if string(fp.sent[0].key) != "GAIN" || fp.sent[1].key != nil {
		t.Errorf("keys must carry over: %q %q", fp.sent[0].key, fp.sent[1].key)
	}

	var env Envelope
	if err := json.Unmarshal(fp.sent[1].value, &env); err != nil {
		t.Fatalf("envelope is not JSON: %v", err)
	}
	if env.BatchID != 12 || env.Partition != 1 || env.Offset != 3 {
		t.Errorf("unexpected origin: %+v", env)
	}
	if string(env.Value) != "not json" || env.Error != "missing price" {
		t.Errorf("unexpected payload: value=%q error=%q", env.Value, env.Error)
	}
	if !env.FailedAt.Equal(fixed) || env.ID == "" {
		t.Errorf("unexpected metadata: id=%q failed_at=%s", env.ID, env.FailedAt)
	}
}

func TestPublishStopsOnProducerError(t *testing.T) {
	fp := &fakeProducer{failAt: 2}
	err := New(fp, log.NewNop()).Publish(context.Background(), 1, testBatch(), errors.New("bad"))
	if err == nil {
		t.Fatal("expected error")
	}
	if len(fp.sent) != 1 {
		t.Errorf("expected 1 envelope before failure, got %d", len(fp.sent))
	}
}
