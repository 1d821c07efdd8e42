package ratelimit

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Redis is a fixed-window Limiter backed by INCR counters.
//
// The first hit in a window creates the counter with a TTL of Window; hits are
// accepted while the counter stays within Limit.
type Redis struct {
	client redis.Cmdable
	prefix string
	rule   Rule
}

// NewRedis builds a Redis limiter. Keys are stored as prefix+key.
func NewRedis(client redis.Cmdable, prefix string, rule Rule) (*Redis, error) {
	if err := rule.validate(); err != nil {
		return nil, err
	}

	return &Redis{client: client, prefix: prefix, rule: rule}, nil
}

// Allow implements Limiter.
func (r *Redis) Allow(ctx context.Context, key string) (Decision, error) {
	k := r.prefix + key

	var (
		incr *redis.IntCmd
		pttl *redis.DurationCmd
	)
	if _, err := r.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		incr = p.Incr(ctx, k)
		p.ExpireNX(ctx, k, r.rule.Window)
		pttl = p.PTTL(ctx, k)
		return nil
	}); err != nil {
		return Decision{}, fmt.Errorf("ratelimit: redis pipeline: %w", err)
	}

	count := int(incr.Val())
	if count <= r.rule.Limit {
		return Decision{Allowed: true, Remaining: r.rule.Limit - count}, nil
	}

	retry := pttl.Val()
	if retry <= 0 {
		retry = r.rule.Window
	}

	return Decision{Allowed: false, RetryAfter: retry}, nil
}
