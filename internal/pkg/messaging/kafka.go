package messaging

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/segmentio/kafka-go"
)

// ErrKafkaBrokersRequired is returned when no Kafka brokers are configured.
var ErrKafkaBrokersRequired = errors.New("messaging: kafka brokers are required")

// KafkaConfig configures the Kafka publisher.
type KafkaConfig struct {
	Brokers []string
	// BatchTimeout bounds how long a message waits for a batch. Default 10ms.
	BatchTimeout time.Duration
	// Transport overrides the default kafka-go transport (TLS, SASL).
	Transport kafka.RoundTripper
}

// Kafka publishes through a single kafka-go Writer; each message carries
// its own topic.
type Kafka struct {
	writer *kafka.Writer
	closed atomic.Bool
}

func NewKafka(cfg KafkaConfig) (*Kafka, error) {
	if len(cfg.Brokers) == 0 {
		return nil, ErrKafkaBrokersRequired
	}

	batch := cfg.BatchTimeout
	if batch <= 0 {
		batch = 10 * time.Millisecond
	}

	return &Kafka{writer: &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		BatchTimeout:           batch,
		AllowAutoTopicCreation: true,
		Transport:              cfg.Transport,
	}}, nil
}

func (k *Kafka) Publish(ctx context.Context, topic string, msg Message) error {
	if err := checkPublish(ctx, topic); err != nil {
		return err
	}
	if k.closed.Load() {
		return ErrClosed
	}

	headers := make([]kafka.Header, 0, len(msg.Headers))
	for key, v := range msg.Headers {
		headers = append(headers, kafka.Header{Key: key, Value: []byte(v)})
	}

	err := k.writer.WriteMessages(ctx, kafka.Message{
		Topic:   topic,
		Key:     msg.Key,
		Value:   msg.Body,
		Headers: headers,
	})
	if err != nil {
		return fmt.Errorf("messaging: kafka write: %w", err)
	}

	return nil
}

// Close flushes buffered messages and closes the writer.
func (k *Kafka) Close() error {
	if k.closed.Swap(true) {
		return nil
	}
	return k.writer.Close()
}
