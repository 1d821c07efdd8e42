package messaging

import (
	"errors"
	"fmt"
	"strings"
)

const (
	DriverNoop  = "noop"
	DriverNATS  = "nats"
	DriverKafka = "kafka"
	DriverNSQ   = "nsq"
)

// ErrUnknownDriver indicates an unsupported messaging driver.
var ErrUnknownDriver = errors.New("messaging: unknown driver")

// FactoryOptions groups the per-broker settings.
type FactoryOptions struct {
	NATS  NATSConfig
	Kafka KafkaConfig
	NSQ   NSQConfig
}

// NewFromDriver builds the Publisher for driver. An empty driver is noop.
func NewFromDriver(driver string, opts FactoryOptions) (Publisher, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "", DriverNoop:
		return NewNoop(), nil
	case DriverNATS:
		return NewNATS(opts.NATS)
	case DriverKafka:
		return NewKafka(opts.Kafka)
	case DriverNSQ:
		return NewNSQ(opts.NSQ)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownDriver, driver)
	}
}
