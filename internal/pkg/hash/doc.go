// Package hash keeps secrets out of storage.
//
// One-time codes and refresh tokens are persisted only as keyed digests, and
// candidates presented by clients are checked against the digest in constant
// time.
package hash
