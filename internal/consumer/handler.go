package consumer

import (
	"context"
	"fmt"
	"time"

	"stock-stream-srv/config"
	checkpointRepo "stock-stream-srv/internal/checkpoint/repository"
	checkpointFile "stock-stream-srv/internal/checkpoint/repository/file"
	checkpointMinio "stock-stream-srv/internal/checkpoint/repository/minio"
	checkpointRedis "stock-stream-srv/internal/checkpoint/repository/redis"
	"stock-stream-srv/internal/ingest/decoder"
	"stock-stream-srv/internal/ingest/delivery/kafka/deadletter"
	"stock-stream-srv/internal/ingest/delivery/kafka/source"
	"stock-stream-srv/internal/ingest/repository"
	sinkPostgre "stock-stream-srv/internal/ingest/repository/postgre"
	"stock-stream-srv/internal/pipeline"
	"stock-stream-srv/internal/transform"
)

// setupDomains initializes the sink, checkpoint store, source and pipeline
func (srv *ConsumerServer) setupDomains(ctx context.Context) (*pipeline.Pipeline, error) {
	cfg := srv.cfg

	sink := sinkPostgre.New(srv.postgresDB, srv.l, repository.Options{
		Schema: cfg.Postgres.Schema,
		Table:  cfg.Postgres.Table,
	})
	if cfg.Postgres.CreateTable {
		if err := sink.EnsureTable(ctx); err != nil {
			return nil, err
		}
		srv.l.Infof(ctx, "Ensured table %s.%s", cfg.Postgres.Schema, cfg.Postgres.Table)
	}
	srv.mu.Lock()
	srv.sink = sink
	srv.mu.Unlock()

	store, err := srv.checkpointStore(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create checkpoint store: %w", err)
	}

	var dlq deadletter.Publisher
	if srv.kafkaProducer != nil {
		dlq = deadletter.New(srv.kafkaProducer, srv.l)
	}

	src := source.New(srv.kafkaConsumer, source.Options{
		MaxBatchSize:    cfg.Pipeline.MaxBatchSize,
		TriggerInterval: time.Duration(cfg.Pipeline.TriggerIntervalMs) * time.Millisecond,
	}, srv.l)

	p, err := pipeline.New(pipeline.Config{
		Logger:          srv.l,
		Topic:           cfg.Kafka.Topic,
		StartingOffsets: source.Policy(cfg.Pipeline.StartingOffsets),
		OnSinkError:     pipeline.SinkErrorPolicy(cfg.Pipeline.OnSinkError),
		OnDecodeError:   pipeline.DecodeErrorPolicy(cfg.Pipeline.OnDecodeError),
		SinkRetry: pipeline.RetryPolicy{
			MaxAttempts: cfg.Pipeline.SinkRetry.MaxAttempts,
			Backoff:     time.Duration(cfg.Pipeline.SinkRetry.BackoffMs) * time.Millisecond,
		},
		Source:      src,
		Decoder:     decoder.New(),
		Transformer: transform.NewNormalizer(),
		Sink:        sink,
		Checkpoints: store,
		DeadLetter:  dlq,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create pipeline: %w", err)
	}

	srv.l.Infof(ctx, "Pipeline for %s initialized (checkpoint: %s at %s)",
		cfg.Kafka.Topic, cfg.Checkpoint.Backend, cfg.Checkpoint.Location(cfg.Kafka.Topic))
	return p, nil
}

// checkpointStore picks the configured backend for this topic's checkpoint location
func (srv *ConsumerServer) checkpointStore(ctx context.Context) (checkpointRepo.Store, error) {
	cp := srv.cfg.Checkpoint
	location := cp.Location(srv.cfg.Kafka.Topic)

	switch cp.Backend {
	case config.CheckpointBackendFile:
		return checkpointFile.New(location, srv.l), nil
	case config.CheckpointBackendRedis:
		return checkpointRedis.New(srv.redisClient, cp.KeyPrefix, location, srv.l), nil
	case config.CheckpointBackendMinIO:
		if err := srv.minioClient.CreateBucket(ctx, cp.Bucket); err != nil {
			return nil, fmt.Errorf("ensure bucket %s: %w", cp.Bucket, err)
		}
		return checkpointMinio.New(srv.minioClient, cp.Bucket, location, srv.l), nil
	default:
		return nil, fmt.Errorf("unknown checkpoint backend %q", cp.Backend)
	}
}
