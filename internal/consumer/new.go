package consumer

import (
	"fmt"

	"stock-stream-srv/config"
)

// New creates a new consumer server with dependency validation
func New(cfg Config) (*ConsumerServer, error) {
	srv := &ConsumerServer{
		l:             cfg.Logger,
		cfg:           cfg.Config,
		kafkaConsumer: cfg.KafkaConsumer,
		postgresDB:    cfg.PostgresDB,
		redisClient:   cfg.RedisClient,
		minioClient:   cfg.MinIOClient,
		kafkaProducer: cfg.KafkaProducer,
	}

	if err := srv.validate(); err != nil {
		return nil, err
	}

	return srv, nil
}

// validate validates that all required dependencies are provided
func (srv *ConsumerServer) validate() error {
	// Core Configuration
	if srv.l == nil {
		return fmt.Errorf("logger is required")
	}
	if srv.cfg == nil {
		return fmt.Errorf("config is required")
	}
	if srv.cfg.Kafka.Topic == "" {
		return fmt.Errorf("kafka topic is required")
	}

	// Infrastructure clients
	if srv.kafkaConsumer == nil {
		return fmt.Errorf("kafka consumer is required")
	}
	if srv.postgresDB == nil {
		return fmt.Errorf("postgres db is required")
	}

	switch srv.cfg.Checkpoint.Backend {
	case config.CheckpointBackendRedis:
		if srv.redisClient == nil {
			return fmt.Errorf("redis client is required for the redis checkpoint backend")
		}
	case config.CheckpointBackendMinIO:
		if srv.minioClient == nil {
			return fmt.Errorf("minio client is required for the minio checkpoint backend")
		}
	}

	if srv.cfg.Pipeline.OnDecodeError == "dead_letter" && srv.kafkaProducer == nil {
		return fmt.Errorf("kafka producer is required for dead-lettering")
	}

	return nil
}
