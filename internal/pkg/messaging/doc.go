// Package messaging publishes domain events to a message broker.
//
// Business code depends on Publisher only, so the broker (NATS, Kafka or
// NSQ) is picked by configuration. The noop driver is used when no broker is
// deployed.
package messaging
