// Package uid generates identifiers: numeric primary keys, UUIDs for token
// IDs and opaque random tokens handed to clients.
package uid

// NumberID generates unique int64 identifiers.
type NumberID interface {
	Generate() int64
}

// StringID generates unique string identifiers.
type StringID interface {
	Generate() string
}
