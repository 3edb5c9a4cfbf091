package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"stock-stream-srv/config"
	"stock-stream-srv/config/kafka"
	kafkaDelivery "stock-stream-srv/internal/ingest/delivery/kafka"
	"stock-stream-srv/pkg/log"
)

// Publishes a JSON array of quotes to the trend topic, keyed by the trend status.
//
//	producer -file quotes.json -chunk 50
//	cat quotes.json | producer
func main() {
	file := flag.String("file", "", "path to a JSON array of quotes (stdin when empty)")
	chunk := flag.Int("chunk", 0, "quotes per message (0 sends the whole array as one message)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Failed to load config: ", err)
		os.Exit(1)
	}

	logger := log.Init(log.ZapConfig{
		Level:        cfg.Logger.Level,
		Mode:         cfg.Logger.Mode,
		Encoding:     cfg.Logger.Encoding,
		ColorEnabled: cfg.Logger.ColorEnabled,
	})
	ctx := context.Background()

	var in io.Reader = os.Stdin
	if *file != "" {
		f, err := os.Open(*file)
		if err != nil {
			logger.Errorf(ctx, "Failed to open %s: %v", *file, err)
			os.Exit(1)
		}
		defer f.Close()
		in = f
	}

	data, err := io.ReadAll(in)
	if err != nil {
		logger.Errorf(ctx, "Failed to read quotes: %v", err)
		os.Exit(1)
	}

	payloads, err := splitQuotes(data, *chunk)
	if err != nil {
		logger.Errorf(ctx, "Invalid quotes payload: %v", err)
		os.Exit(1)
	}

	producer, err := kafka.ConnectProducer(cfg.Kafka, cfg.Kafka.Topic)
	if err != nil {
		logger.Errorf(ctx, "Failed to connect to Kafka producer: %v", err)
		os.Exit(1)
	}
	defer producer.Close()

	key := kafkaDelivery.StatusForTopic(cfg.Kafka.Topic)
	n, err := publish(producer, []byte(key), payloads)
	if err != nil {
		logger.Errorf(ctx, "Published %d of %d messages to %s: %v", n, len(payloads), cfg.Kafka.Topic, err)
		os.Exit(1)
	}
	logger.Infof(ctx, "Published %d messages to %s with key %s", n, cfg.Kafka.Topic, key)
}
