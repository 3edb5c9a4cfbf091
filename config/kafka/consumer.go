package kafka

import (
	"fmt"

	"github.com/IBM/sarama"

	"stock-stream-srv/config"
	"stock-stream-srv/pkg/kafka"
)

// ConnectConsumer creates the partition consumer for the quote topic.
func ConnectConsumer(cfg config.KafkaConfig) (sarama.Consumer, error) {
	consumer, err := kafka.NewConsumer(kafka.ConsumerConfig{
		Brokers:  cfg.Brokers,
		ClientID: cfg.ClientID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Kafka consumer: %w", err)
	}
	return consumer, nil
}
