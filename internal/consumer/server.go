package consumer

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/IBM/sarama"

	"stock-stream-srv/config"
	"stock-stream-srv/internal/ingest/repository"
	"stock-stream-srv/internal/pipeline"
	pkgKafka "stock-stream-srv/pkg/kafka"
	"stock-stream-srv/pkg/log"
	"stock-stream-srv/pkg/minio"
	"stock-stream-srv/pkg/redis"
)

// stopTimeout bounds how long shutdown waits for the in-flight batch.
const stopTimeout = 30 * time.Second

// ConsumerServer runs the quote ingestion pipeline for one topic.
type ConsumerServer struct {
	// Core Configuration
	l   log.Logger
	cfg *config.Config

	// Infrastructure clients
	kafkaConsumer sarama.Consumer
	postgresDB    *sql.DB
	redisClient   redis.IRedis
	minioClient   minio.MinIO
	kafkaProducer pkgKafka.IProducer

	mu     sync.RWMutex
	sink   repository.SinkRepository
	handle *pipeline.Handle
	// startErr and failedAt are set when the pipeline never started.
	startErr error
	failedAt time.Time
}

// Config holds all dependencies for the consumer server
type Config struct {
	// Core Configuration
	Logger log.Logger
	Config *config.Config

	// Infrastructure clients
	KafkaConsumer sarama.Consumer
	PostgresDB    *sql.DB
	// RedisClient is required for the redis checkpoint backend.
	RedisClient redis.IRedis
	// MinIOClient is required for the minio checkpoint backend.
	MinIOClient minio.MinIO
	// KafkaProducer publishes to the dead-letter topic.
	KafkaProducer pkgKafka.IProducer
}

// Run starts the pipeline and blocks until ctx is cancelled or the pipeline terminates.
// It returns nil for a clean stop and the terminating error otherwise.
func (srv *ConsumerServer) Run(ctx context.Context) error {
	p, err := srv.setupDomains(ctx)
	if err != nil {
		srv.l.Errorf(ctx, "Failed to setup domains: %v", err)
		return srv.failStartup(err)
	}

	h, err := p.Run(ctx)
	if err != nil {
		srv.l.Errorf(ctx, "Failed to start pipeline: %v", err)
		return srv.failStartup(err)
	}
	srv.mu.Lock()
	srv.handle = h
	srv.mu.Unlock()

	srv.l.Infof(ctx, "Consuming %s", srv.cfg.Kafka.Topic)

	select {
	case <-h.Done():
	case <-ctx.Done():
		srv.l.Infof(context.WithoutCancel(ctx), "Stopping pipeline, waiting for in-flight batch")
		stopCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), stopTimeout)
		defer cancel()
		if err := h.Stop(stopCtx); err != nil {
			srv.l.Errorf(stopCtx, "Pipeline did not stop in time: %v", err)
			return err
		}
	}

	return h.AwaitTermination(context.WithoutCancel(ctx))
}

// failStartup records err so Status reports FAILED for a pipeline that never ran.
func (srv *ConsumerServer) failStartup(err error) error {
	srv.mu.Lock()
	srv.startErr = err
	srv.failedAt = time.Now().UTC()
	srv.mu.Unlock()
	return err
}

// Status reports the pipeline status. Before Run has started the pipeline it is
// INITIALIZING, or FAILED with the startup error.
func (srv *ConsumerServer) Status() pipeline.Status {
	srv.mu.RLock()
	defer srv.mu.RUnlock()
	if srv.handle != nil {
		return srv.handle.Status()
	}
	if srv.startErr != nil {
		failedAt := srv.failedAt
		return pipeline.Status{
			State:     pipeline.StateFailed,
			Topic:     srv.cfg.Kafka.Topic,
			LastError: srv.startErr.Error(),
			StoppedAt: &failedAt,
		}
	}
	return pipeline.Status{State: pipeline.StateInitializing, Topic: srv.cfg.Kafka.Topic}
}

// Ping checks the sink database.
func (srv *ConsumerServer) Ping(ctx context.Context) error {
	srv.mu.RLock()
	sink := srv.sink
	srv.mu.RUnlock()
	if sink == nil {
		return srv.postgresDB.PingContext(ctx)
	}
	return sink.Ping(ctx)
}
