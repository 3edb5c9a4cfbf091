package kafka

import (
	"fmt"

	"stock-stream-srv/config"
	"stock-stream-srv/pkg/kafka"
)

// ConnectProducer creates a producer publishing to topic.
func ConnectProducer(cfg config.KafkaConfig, topic string) (kafka.IProducer, error) {
	producer, err := kafka.NewProducer(kafka.Config{
		Brokers:  cfg.Brokers,
		Topic:    topic,
		ClientID: cfg.ClientID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Kafka producer for %s: %w", topic, err)
	}
	return producer, nil
}
