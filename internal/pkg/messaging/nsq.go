package messaging

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	nsq "github.com/nsqio/go-nsq"
)

// ErrNSQAddrRequired is returned when the nsqd address is missing.
var ErrNSQAddrRequired = errors.New("messaging: nsqd address is required")

// NSQConfig configures the NSQ publisher.
type NSQConfig struct {
	// Addr is the nsqd TCP address.
	Addr string
	// Config overrides the default producer config.
	Config *nsq.Config
}

// NSQ publishes to nsqd. NSQ has no message headers, so Message.Headers
// and Message.Key are dropped.
type NSQ struct {
	producer *nsq.Producer
	closed   atomic.Bool
}

func NewNSQ(cfg NSQConfig) (*NSQ, error) {
	if cfg.Addr == "" {
		return nil, ErrNSQAddrRequired
	}

	pcfg := cfg.Config
	if pcfg == nil {
		pcfg = nsq.NewConfig()
	}

	p, err := nsq.NewProducer(cfg.Addr, pcfg)
	if err != nil {
		return nil, fmt.Errorf("messaging: nsq new producer: %w", err)
	}
	p.SetLoggerLevel(nsq.LogLevelError)

	return &NSQ{producer: p}, nil
}

func (n *NSQ) Publish(ctx context.Context, topic string, msg Message) error {
	if err := checkPublish(ctx, topic); err != nil {
		return err
	}
	if n.closed.Load() {
		return ErrClosed
	}

	done := make(chan *nsq.ProducerTransaction, 1)
	if err := n.producer.PublishAsync(topic, msg.Body, done); err != nil {
		return fmt.Errorf("messaging: nsq publish: %w", err)
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case tx := <-done:
		if tx.Error != nil {
			return fmt.Errorf("messaging: nsq publish: %w", tx.Error)
		}
		return nil
	}
}

func (n *NSQ) Close() error {
	if n.closed.Swap(true) {
		return nil
	}
	n.producer.Stop()
	return nil
}
