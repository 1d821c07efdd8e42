package hash

import "errors"

// ErrEmptySecret is returned when a keyed hasher is built without a key.
var ErrEmptySecret = errors.New("hash: secret must not be empty")

// Hash turns short-lived secrets (one-time codes, refresh tokens) into
// digests that are safe to persist, and checks candidates against them.
type Hash interface {
	// Hash returns the hex-encoded digest of str.
	Hash(str string) ([]byte, error)
	// Verify reports whether str produces hashed. It runs in constant time.
	Verify(hashed, str string) bool
}
