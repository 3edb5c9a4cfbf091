package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	kafkaDelivery "stock-stream-srv/internal/ingest/delivery/kafka"
)

// Config holds all service configuration.
type Config struct {
	// Environment Configuration
	Environment EnvironmentConfig

	// Server Configuration
	HTTPServer HTTPServerConfig
	Logger     LoggerConfig

	// Kafka - Quote topics
	Kafka KafkaConfig

	// Pipeline - Micro-batch loop and failure policies
	Pipeline PipelineConfig

	// Checkpoint - Offset tracking
	Checkpoint CheckpointConfig

	// PostgreSQL - Stock table sink
	Postgres PostgresConfig

	// Redis - Checkpoint backend (optional)
	Redis RedisConfig

	// MinIO - Checkpoint backend (optional)
	MinIO MinIOConfig
}

// EnvironmentConfig is the configuration for the deployment environment.
type EnvironmentConfig struct {
	Name string
}

// HTTPServerConfig is the configuration for the status HTTP server
type HTTPServerConfig struct {
	Host string
	Port int
	Mode string
}

// LoggerConfig is the configuration for the logger
type LoggerConfig struct {
	Level        string
	Mode         string
	Encoding     string
	ColorEnabled bool
}

// KafkaConfig is the configuration for Kafka.
// Topic is derived from Trend unless set explicitly.
type KafkaConfig struct {
	Brokers         []string
	ClientID        string
	Trend           string
	Topic           string
	DeadLetterTopic string
}

// PipelineConfig is the configuration for the ingestion loop
type PipelineConfig struct {
	StartingOffsets   string
	MaxBatchSize      int
	TriggerIntervalMs int
	OnSinkError       string
	OnDecodeError     string
	SinkRetry         RetryConfig
}

// RetryConfig bounds sink retries for retryable errors
type RetryConfig struct {
	MaxAttempts int
	BackoffMs   int
}

// CheckpointConfig is the configuration for the checkpoint store
type CheckpointConfig struct {
	Backend   string // file, redis, minio
	BaseDir   string
	KeyPrefix string
	Bucket    string
}

// PostgresConfig is the configuration for Postgres
type PostgresConfig struct {
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	Schema      string
	Table       string
	CreateTable bool
}

// RedisConfig is the configuration for Redis
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// MinIOConfig is the configuration for MinIO
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Region    string
}

const (
	CheckpointBackendFile  = "file"
	CheckpointBackendRedis = "redis"
	CheckpointBackendMinIO = "minio"
)

// Load loads configuration using Viper. A .env file, when present, is loaded first
// so credentials never have to live in the yaml file.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}

	// Set config file name and paths
	viper.SetConfigName("stock-stream-config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")
	viper.AddConfigPath("/etc/stock-stream/")

	// Enable environment variable override
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults()

	// Read config file (optional - will use env vars if file not found)
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{}

	// Environment & Server
	cfg.Environment.Name = viper.GetString("environment.name")
	cfg.HTTPServer.Host = viper.GetString("http_server.host")
	cfg.HTTPServer.Port = viper.GetInt("http_server.port")
	cfg.HTTPServer.Mode = viper.GetString("http_server.mode")
	cfg.Logger.Level = viper.GetString("logger.level")
	cfg.Logger.Mode = viper.GetString("logger.mode")
	cfg.Logger.Encoding = viper.GetString("logger.encoding")
	cfg.Logger.ColorEnabled = viper.GetBool("logger.color_enabled")

	// Kafka
	cfg.Kafka.Brokers = viper.GetStringSlice("kafka.brokers")
	cfg.Kafka.ClientID = viper.GetString("kafka.client_id")
	cfg.Kafka.Trend = strings.ToUpper(viper.GetString("kafka.trend"))
	cfg.Kafka.Topic = viper.GetString("kafka.topic")
	if cfg.Kafka.Topic == "" {
		cfg.Kafka.Topic = kafkaDelivery.TopicForTrend(cfg.Kafka.Trend)
	}
	cfg.Kafka.DeadLetterTopic = viper.GetString("kafka.dead_letter_topic")

	// Pipeline
	cfg.Pipeline.StartingOffsets = viper.GetString("pipeline.starting_offsets")
	cfg.Pipeline.MaxBatchSize = viper.GetInt("pipeline.max_batch_size")
	cfg.Pipeline.TriggerIntervalMs = viper.GetInt("pipeline.trigger_interval_ms")
	cfg.Pipeline.OnSinkError = viper.GetString("pipeline.on_sink_error")
	cfg.Pipeline.OnDecodeError = viper.GetString("pipeline.on_decode_error")
	cfg.Pipeline.SinkRetry.MaxAttempts = viper.GetInt("pipeline.sink_retry.max_attempts")
	cfg.Pipeline.SinkRetry.BackoffMs = viper.GetInt("pipeline.sink_retry.backoff_ms")

	// Checkpoint
	cfg.Checkpoint.Backend = viper.GetString("checkpoint.backend")
	cfg.Checkpoint.BaseDir = viper.GetString("checkpoint.base_dir")
	cfg.Checkpoint.KeyPrefix = viper.GetString("checkpoint.key_prefix")
	cfg.Checkpoint.Bucket = viper.GetString("checkpoint.bucket")

	// PostgreSQL
	cfg.Postgres.Host = viper.GetString("postgres.host")
	cfg.Postgres.Port = viper.GetInt("postgres.port")
	cfg.Postgres.User = viper.GetString("postgres.user")
	cfg.Postgres.Password = viper.GetString("postgres.password")
	cfg.Postgres.DBName = viper.GetString("postgres.dbname")
	cfg.Postgres.SSLMode = viper.GetString("postgres.sslmode")
	cfg.Postgres.Schema = viper.GetString("postgres.schema")
	cfg.Postgres.Table = viper.GetString("postgres.table")
	cfg.Postgres.CreateTable = viper.GetBool("postgres.create_table")

	// Redis
	cfg.Redis.Host = viper.GetString("redis.host")
	cfg.Redis.Port = viper.GetInt("redis.port")
	cfg.Redis.Password = viper.GetString("redis.password")
	cfg.Redis.DB = viper.GetInt("redis.db")

	// MinIO
	cfg.MinIO.Endpoint = viper.GetString("minio.endpoint")
	cfg.MinIO.AccessKey = viper.GetString("minio.access_key")
	cfg.MinIO.SecretKey = viper.GetString("minio.secret_key")
	cfg.MinIO.UseSSL = viper.GetBool("minio.use_ssl")
	cfg.MinIO.Region = viper.GetString("minio.region")

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Location is the per-topic location handed to the checkpoint store.
func (c CheckpointConfig) Location(topic string) string {
	base := strings.TrimRight(c.BaseDir, "/")
	if base == "" {
		return topic
	}
	return base + "/" + topic
}

func setDefaults() {
	// Environment
	viper.SetDefault("environment.name", "production")

	// HTTP Server
	viper.SetDefault("http_server.host", "")
	viper.SetDefault("http_server.port", 8080)
	viper.SetDefault("http_server.mode", "release")

	// Logger
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.mode", "debug")
	viper.SetDefault("logger.encoding", "console")
	viper.SetDefault("logger.color_enabled", true)

	// Kafka
	viper.SetDefault("kafka.brokers", []string{"localhost:9092"})
	viper.SetDefault("kafka.client_id", "stock-stream-srv")
	viper.SetDefault("kafka.trend", "ACTIVE")
	viper.SetDefault("kafka.dead_letter_topic", "")

	// Pipeline
	viper.SetDefault("pipeline.starting_offsets", "earliest")
	viper.SetDefault("pipeline.max_batch_size", 500)
	viper.SetDefault("pipeline.trigger_interval_ms", 1000)
	viper.SetDefault("pipeline.on_sink_error", "fail")
	viper.SetDefault("pipeline.on_decode_error", "fail")
	viper.SetDefault("pipeline.sink_retry.max_attempts", 3)
	viper.SetDefault("pipeline.sink_retry.backoff_ms", 500)

	// Checkpoint
	viper.SetDefault("checkpoint.backend", CheckpointBackendFile)
	viper.SetDefault("checkpoint.base_dir", "./checkpoint")
	viper.SetDefault("checkpoint.key_prefix", "stock-stream:checkpoint")
	viper.SetDefault("checkpoint.bucket", "stock-stream-checkpoints")

	// PostgreSQL (credentials come from POSTGRES_USER / POSTGRES_PASSWORD)
	viper.SetDefault("postgres.host", "localhost")
	viper.SetDefault("postgres.port", 5432)
	viper.SetDefault("postgres.dbname", "realstockdata")
	viper.SetDefault("postgres.sslmode", "disable")
	viper.SetDefault("postgres.schema", "public")
	viper.SetDefault("postgres.table", "stock")
	viper.SetDefault("postgres.create_table", false)

	// Redis
	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)

	// MinIO
	viper.SetDefault("minio.endpoint", "localhost:9000")
	viper.SetDefault("minio.use_ssl", false)
	viper.SetDefault("minio.region", "us-east-1")
}

func validate(cfg *Config) error {
	if len(cfg.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers must have at least one value")
	}
	if cfg.Kafka.Topic == "" {
		return fmt.Errorf("kafka.topic is required")
	}

	switch cfg.Pipeline.StartingOffsets {
	case "earliest", "latest":
	default:
		return fmt.Errorf("pipeline.starting_offsets must be earliest or latest, got %q", cfg.Pipeline.StartingOffsets)
	}
	switch cfg.Pipeline.OnSinkError {
	case "fail", "skip":
	default:
		return fmt.Errorf("pipeline.on_sink_error must be fail or skip, got %q", cfg.Pipeline.OnSinkError)
	}
	switch cfg.Pipeline.OnDecodeError {
	case "fail":
	case "dead_letter":
		if cfg.Kafka.DeadLetterTopic == "" {
			return fmt.Errorf("kafka.dead_letter_topic is required when pipeline.on_decode_error is dead_letter")
		}
	default:
		return fmt.Errorf("pipeline.on_decode_error must be fail or dead_letter, got %q", cfg.Pipeline.OnDecodeError)
	}
	if cfg.Pipeline.MaxBatchSize <= 0 {
		return fmt.Errorf("pipeline.max_batch_size must be greater than 0")
	}
	if cfg.Pipeline.TriggerIntervalMs <= 0 {
		return fmt.Errorf("pipeline.trigger_interval_ms must be greater than 0")
	}

	switch cfg.Checkpoint.Backend {
	case CheckpointBackendFile:
		if cfg.Checkpoint.BaseDir == "" {
			return fmt.Errorf("checkpoint.base_dir is required for the file backend")
		}
	case CheckpointBackendRedis:
		if cfg.Redis.Host == "" || cfg.Redis.Port == 0 {
			return fmt.Errorf("redis.host and redis.port are required for the redis backend")
		}
	case CheckpointBackendMinIO:
		if cfg.MinIO.Endpoint == "" || cfg.MinIO.AccessKey == "" || cfg.MinIO.SecretKey == "" {
			return fmt.Errorf("minio.endpoint, minio.access_key and minio.secret_key are required for the minio backend")
		}
		if cfg.Checkpoint.Bucket == "" {
			return fmt.Errorf("checkpoint.bucket is required for the minio backend")
		}
	default:
		return fmt.Errorf("checkpoint.backend must be file, redis or minio, got %q", cfg.Checkpoint.Backend)
	}

	if cfg.Postgres.Host == "" {
		return fmt.Errorf("postgres.host is required")
	}
	if cfg.Postgres.Port == 0 {
		return fmt.Errorf("postgres.port is required")
	}
	if cfg.Postgres.DBName == "" {
		return fmt.Errorf("postgres.dbname is required")
	}
	if cfg.Postgres.User == "" {
		return fmt.Errorf("postgres.user is required")
	}
	if cfg.Postgres.Table == "" {
		return fmt.Errorf("postgres.table is required")
	}

	return nil
}
