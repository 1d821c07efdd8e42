// Package ratelimit provides keyed request throttles.
//
// Two implementations share the Limiter contract: Redis keeps fixed-window
// counters shared by every instance of the service, Memory keeps per-key token
// buckets inside one process.
package ratelimit

import (
	"context"
	"errors"
	"time"
)

// ErrInvalidRule is returned when a rule has a non-positive limit or window.
var ErrInvalidRule = errors.New("ratelimit: limit and window must be positive")

// Rule allows Limit hits per Window for a single key.
type Rule struct {
	Limit  int
	Window time.Duration
}

func (r Rule) validate() error {
	if r.Limit < 1 || r.Window <= 0 {
		return ErrInvalidRule
	}
	return nil
}

// Decision is the outcome of a single hit.
type Decision struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration
}

// Limiter consumes one hit for key and reports whether it fits the rule.
type Limiter interface {
	Allow(ctx context.Context, key string) (Decision, error)
}
