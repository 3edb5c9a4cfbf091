package kafka

import (
	"time"

	"github.com/IBM/sarama"
)

const (
	// ProducerTimeout is the Kafka producer request timeout.
	ProducerTimeout = 10 * time.Second
	// ProducerRetryMax is the max producer retries.
	ProducerRetryMax = 3
	// ConsumerRetryBackoff is how long a partition consumer waits before retrying a failed fetch.
	ConsumerRetryBackoff = 2 * time.Second
	// MetadataRetryMax bounds metadata refresh attempts before the client reports out-of-brokers.
	MetadataRetryMax = 5
)

var (
	// KafkaVersion is the sarama version used.
	KafkaVersion = sarama.V2_6_0_0
)
