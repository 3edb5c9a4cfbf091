package kafka

import (
	"fmt"

	"github.com/IBM/sarama"
)

func validateConsumerConfig(cfg ConsumerConfig) error {
	if len(cfg.Brokers) == 0 {
		return fmt.Errorf("kafka: at least one broker is required")
	}
	return nil
}

func newConsumerConfig(cfg ConsumerConfig) *sarama.Config {
	config := sarama.NewConfig()
	config.Version = KafkaVersion
	if cfg.ClientID != "" {
		config.ClientID = cfg.ClientID
	}
	config.Consumer.Return.Errors = true
	config.Consumer.Offsets.Initial = sarama.OffsetOldest
	config.Consumer.Retry.Backoff = ConsumerRetryBackoff
	config.Metadata.Retry.Max = MetadataRetryMax
	return config
}

func newConsumerImpl(cfg ConsumerConfig) (sarama.Consumer, error) {
	consumer, err := sarama.NewConsumer(cfg.Brokers, newConsumerConfig(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka consumer: %w", err)
	}
	return consumer, nil
}
