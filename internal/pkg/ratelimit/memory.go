package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Memory is an in-process Limiter built on token buckets.
//
// A bucket holds Limit tokens and refills one token every Window/Limit, so a
// burst of Limit hits is accepted before callers are pushed back.
type Memory struct {
	now   func() time.Time
	every rate.Limit
	burst int
	idle  time.Duration

	mu      sync.Mutex
	buckets map[string]*bucket
}

// NewMemory builds a Memory limiter. now may be nil to use time.Now.
func NewMemory(rule Rule, now func() time.Time) (*Memory, error) {
	if err := rule.validate(); err != nil {
		return nil, err
	}
	if now == nil {
		now = time.Now
	}

	return &Memory{
		now:     now,
		every:   rate.Every(rule.Window / time.Duration(rule.Limit)),
		burst:   rule.Limit,
		idle:    2 * rule.Window,
		buckets: make(map[string]*bucket),
	}, nil
}

// Allow implements Limiter.
func (m *Memory) Allow(_ context.Context, key string) (Decision, error) {
	now := m.now()
	lim := m.get(key, now)

	res := lim.ReserveN(now, 1)
	if !res.OK() {
		return Decision{}, ErrInvalidRule
	}

	if delay := res.DelayFrom(now); delay > 0 {
		res.CancelAt(now)
		// float token math leaves nanosecond noise
		return Decision{Allowed: false, RetryAfter: delay.Round(time.Millisecond)}, nil
	}

	return Decision{Allowed: true, Remaining: int(lim.TokensAt(now))}, nil
}

func (m *Memory) get(key string, now time.Time) *rate.Limiter {
	m.mu.Lock()
	defer m.mu.Unlock()

	if b, ok := m.buckets[key]; ok {
		b.lastSeen = now
		return b.limiter
	}

	m.sweepLocked(now)

	b := &bucket{limiter: rate.NewLimiter(m.every, m.burst), lastSeen: now}
	m.buckets[key] = b

	return b.limiter
}

func (m *Memory) sweepLocked(now time.Time) {
	for key, b := range m.buckets {
		if now.Sub(b.lastSeen) > m.idle {
			delete(m.buckets, key)
		}
	}
}
