package kafka

import (
	"errors"
	"testing"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
)

func TestProducerPublish(t *testing.T) {
	t.Run("sends key and value to configured topic", func(t *testing.T) {
		sp := mocks.NewSyncProducer(t, nil)
		sp.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
			if string(val) != `[{"symbol":"AAPL"}]` {
				return errors.New("unexpected value " + string(val))
			}
			return nil
		})

		p := &producerImpl{producer: sp, topic: "Gainers"}
		if err := p.Publish([]byte("GAIN"), []byte(`[{"symbol":"AAPL"}]`)); err != nil {
			t.Fatalf("Publish: %v", err)
		}
		if err := p.Close(); err != nil {
			t.Fatalf("Close: %v", err)
		}
	})

	t.Run("wraps send failure", func(t *testing.T) {
		sp := mocks.NewSyncProducer(t, nil)
		sp.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

		p := &producerImpl{producer: sp, topic: "Losers"}
		err := p.Publish(nil, []byte("[]"))
		if !errors.Is(err, sarama.ErrOutOfBrokers) {
			t.Fatalf("expected ErrOutOfBrokers, got %v", err)
		}
		_ = p.Close()
	})
}

func TestValidateConfig(t *testing.T) {
	if err := validateProducerConfig(Config{Topic: "Active"}); err == nil {
		t.Error("expected error for missing brokers")
	}
	if err := validateProducerConfig(Config{Brokers: []string{"localhost:9092"}}); err == nil {
		t.Error("expected error for missing topic")
	}
	if err := validateConsumerConfig(ConsumerConfig{}); err == nil {
		t.Error("expected error for missing brokers")
	}
	if err := validateConsumerConfig(ConsumerConfig{Brokers: []string{"localhost:9092"}}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestConsumerConfigDefaults(t *testing.T) {
	cfg := newConsumerConfig(ConsumerConfig{Brokers: []string{"b:9092"}, ClientID: "stock-stream-srv"})
	if cfg.ClientID != "stock-stream-srv" {
		t.Errorf("ClientID: got %s", cfg.ClientID)
	}
	if !cfg.Consumer.Return.Errors {
		t.Error("consumer errors must be returned so fatal failures can be surfaced")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("config should validate: %v", err)
	}
}
