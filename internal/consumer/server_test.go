package consumer

import (
	"context"
	"errors"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"

	"stock-stream-srv/config"
	checkpointFile "stock-stream-srv/internal/checkpoint/repository/file"
	"stock-stream-srv/internal/pipeline"
	"stock-stream-srv/pkg/log"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Kafka: config.KafkaConfig{Brokers: []string{"localhost:9092"}, Trend: "GAINERS", Topic: "Gainers"},
		Pipeline: config.PipelineConfig{
			StartingOffsets:   "earliest",
			MaxBatchSize:      1,
			TriggerIntervalMs: 50,
			OnSinkError:       "fail",
			OnDecodeError:     "fail",
			SinkRetry:         config.RetryConfig{MaxAttempts: 1},
		},
		Checkpoint: config.CheckpointConfig{Backend: config.CheckpointBackendFile, BaseDir: t.TempDir()},
		Postgres:   config.PostgresConfig{Schema: "public", Table: "stock"},
	}
}

func TestRunIngestsAndCheckpoints(t *testing.T) {
	cfg := testConfig(t)

	kc := mocks.NewConsumer(t, mocks.NewTestConfig())
	kc.SetTopicMetadata(map[string][]int32{"Gainers": {0}})
	pc := kc.ExpectConsumePartition("Gainers", 0, sarama.OffsetOldest)
	pc.YieldMessage(&sarama.ConsumerMessage{
		Key:   []byte("GAIN"),
		Value: []byte(`[{"symbol":"AAPL","name":"Apple Inc.","price":150.0}]`),
	})

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()
	mock.ExpectBegin()
	prep := mock.ExpectPrepare(regexp.QuoteMeta(`COPY "public"."stock"`))
	prep.ExpectExec().WillReturnResult(sqlmock.NewResult(0, 1))
	prep.ExpectExec().WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	srv, err := New(Config{Logger: log.NewNop(), Config: cfg, KafkaConsumer: kc, PostgresDB: db})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if st := srv.Status(); st.State != pipeline.StateInitializing {
		t.Errorf("status before Run: %s", st.State)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	deadline := time.Now().Add(2 * time.Second)
	for srv.Status().BatchesCommitted < 1 {
		if time.Now().After(deadline) {
			t.Fatalf("batch never committed: %+v", srv.Status())
		}
		time.Sleep(5 * time.Millisecond)
	}
	if st := srv.Status(); st.State != pipeline.StateRunning || st.RecordsWritten != 1 {
		t.Errorf("unexpected status: %+v", st)
	}

	store := checkpointFile.New(filepath.Join(cfg.Checkpoint.BaseDir, "Gainers"), log.NewNop())
	cp, err := store.Load(context.Background())
	if err != nil || cp.BatchID != 1 || cp.Topic != "Gainers" {
		t.Fatalf("checkpoint: %+v %v", cp, err)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("sql expectations: %v", err)
	}
}

func TestNewValidatesBackends(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()
	kc := mocks.NewConsumer(t, nil)

	tests := []struct {
		name   string
		mutate func(c *config.Config)
	}{
		{"redis without client", func(c *config.Config) { c.Checkpoint.Backend = config.CheckpointBackendRedis }},
		{"minio without client", func(c *config.Config) { c.Checkpoint.Backend = config.CheckpointBackendMinIO }},
		{"dead letter without producer", func(c *config.Config) { c.Pipeline.OnDecodeError = "dead_letter" }},
		{"missing topic", func(c *config.Config) { c.Kafka.Topic = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(t)
			tt.mutate(cfg)
			if _, err := New(Config{Logger: log.NewNop(), Config: cfg, KafkaConsumer: kc, PostgresDB: db}); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestRunFailsOnUnknownTopic(t *testing.T) {
	cfg := testConfig(t)
	kc := mocks.NewConsumer(t, nil)
	kc.SetTopicMetadata(map[string][]int32{"Losers": {0}})
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	srv, err := New(Config{Logger: log.NewNop(), Config: cfg, KafkaConsumer: kc, PostgresDB: db})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if st := srv.Status(); st.State != pipeline.StateInitializing {
		t.Errorf("state before Run: got %s, want INITIALIZING", st.State)
	}

	runErr := srv.Run(context.Background())
	if !errors.Is(runErr, pipeline.ErrSource) {
		t.Fatalf("expected ErrSource, got %v", runErr)
	}

	st := srv.Status()
	if st.State != pipeline.StateFailed {
		t.Errorf("state after failed start: got %s, want FAILED", st.State)
	}
	if st.LastError != runErr.Error() {
		t.Errorf("last error: got %q, want %q", st.LastError, runErr.Error())
	}
	if st.StoppedAt == nil {
		t.Error("expected StoppedAt to be set")
	}
}
