package messaging

import (
	"context"
	"errors"
	"io"
)

var (
	// ErrTopicRequired is returned when Publish gets an empty topic.
	ErrTopicRequired = errors.New("messaging: topic is required")
	// ErrClosed is returned when publishing after Close.
	ErrClosed = errors.New("messaging: publisher is closed")
)

// Publisher sends messages to a broker topic (a subject for NATS).
type Publisher interface {
	io.Closer

	Publish(ctx context.Context, topic string, msg Message) error
}

// Message is a broker-agnostic outgoing message.
type Message struct {
	// Key is used by Kafka for partitioning. Other brokers ignore it.
	Key []byte
	// Body is the payload.
	Body []byte
	// Headers are carried as broker headers where supported (NATS, Kafka).
	Headers map[string]string
}

func checkPublish(ctx context.Context, topic string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if topic == "" {
		return ErrTopicRequired
	}
	return nil
}
