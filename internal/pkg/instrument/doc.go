// Package instrument sets up structured logging, tracing and metrics.
//
// Logs are JSON on stdout with secrets and phone numbers masked, and are
// mirrored to an OTLP collector when telemetry is enabled.
package instrument
