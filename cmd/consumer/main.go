package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"stock-stream-srv/config"
	"stock-stream-srv/config/kafka"
	"stock-stream-srv/config/minio"
	"stock-stream-srv/config/postgre"
	"stock-stream-srv/config/redis"
	"stock-stream-srv/internal/consumer"
	"stock-stream-srv/internal/httpserver"
	pkgKafka "stock-stream-srv/pkg/kafka"
	"stock-stream-srv/pkg/log"
	pkgMinIO "stock-stream-srv/pkg/minio"
	pkgRedis "stock-stream-srv/pkg/redis"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Failed to load config: ", err)
		os.Exit(1)
	}

	// Initialize logger
	logger := log.Init(log.ZapConfig{
		Level:        cfg.Logger.Level,
		Mode:         cfg.Logger.Mode,
		Encoding:     cfg.Logger.Encoding,
		ColorEnabled: cfg.Logger.ColorEnabled,
	})

	// Create context with signal handling for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Errorf(ctx, "Stock stream service error: %v", err)
		stop()
		os.Exit(1)
	}
	logger.Info(ctx, "Stock stream service stopped gracefully")
}

func run(ctx context.Context, cfg *config.Config, logger log.Logger) error {
	logger.Infof(ctx, "Starting stock stream service for topic %s...", cfg.Kafka.Topic)

	// Kafka consumer
	kafkaConsumer, err := kafka.ConnectConsumer(cfg.Kafka)
	if err != nil {
		return err
	}
	defer kafkaConsumer.Close()
	logger.Info(ctx, "Kafka consumer initialized")

	// Kafka producer (dead-letter topic, optional)
	var kafkaProducer pkgKafka.IProducer
	if cfg.Kafka.DeadLetterTopic != "" {
		kafkaProducer, err = kafka.ConnectProducer(cfg.Kafka, cfg.Kafka.DeadLetterTopic)
		if err != nil {
			return err
		}
		defer kafkaProducer.Close()
		logger.Infof(ctx, "Kafka dead-letter producer initialized for %s", cfg.Kafka.DeadLetterTopic)
	}

	// PostgreSQL
	postgresDB, err := postgre.Connect(ctx, cfg.Postgres)
	if err != nil {
		return err
	}
	defer postgresDB.Close()
	logger.Info(ctx, "PostgreSQL client initialized")

	// Checkpoint backends
	var redisClient pkgRedis.IRedis
	var minioClient pkgMinIO.MinIO
	switch cfg.Checkpoint.Backend {
	case config.CheckpointBackendRedis:
		redisClient, err = redis.Connect(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		defer redisClient.Close()
		logger.Info(ctx, "Redis client initialized")
	case config.CheckpointBackendMinIO:
		minioClient, err = minio.Connect(ctx, cfg.MinIO)
		if err != nil {
			return err
		}
		defer minioClient.Close()
		logger.Info(ctx, "MinIO client initialized")
	}

	// Consumer server
	srv, err := consumer.New(consumer.Config{
		Logger:        logger,
		Config:        cfg,
		KafkaConsumer: kafkaConsumer,
		PostgresDB:    postgresDB,
		RedisClient:   redisClient,
		MinIOClient:   minioClient,
		KafkaProducer: kafkaProducer,
	})
	if err != nil {
		return fmt.Errorf("failed to create consumer server: %w", err)
	}

	// Status HTTP server
	httpServer, err := httpserver.New(httpserver.Config{
		Logger:      logger,
		Host:        cfg.HTTPServer.Host,
		Port:        cfg.HTTPServer.Port,
		Mode:        cfg.HTTPServer.Mode,
		Environment: cfg.Environment.Name,
		Sink:        srv,
		Status:      srv,
	})
	if err != nil {
		return fmt.Errorf("failed to create http server: %w", err)
	}

	// The pipeline terminating for any reason shuts the HTTP server down too.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info(gctx, "Consumer server starting...")
		err := srv.Run(gctx)
		if err == nil {
			err = errPipelineStopped
		}
		return err
	})
	g.Go(func() error {
		return httpServer.Run(gctx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, errPipelineStopped) {
		return err
	}
	return nil
}
