package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisLimiter shares window counters between backend instances through Redis
type RedisLimiter struct {
	client   *redis.Client
	limit    int
	window   time.Duration
	prefix   string
	settings settings
}

func NewRedisLimiter(client *redis.Client, limit int, window time.Duration, opts ...Option) *RedisLimiter {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if window <= 0 {
		window = DefaultWindow
	}

	return &RedisLimiter{
		client:   client,
		limit:    limit,
		window:   window,
		prefix:   "ratelimit",
		settings: newSettings(opts),
	}
}

func (l *RedisLimiter) Name() string { return "redis" }

// Allow increments the caller's counter for the current window.
// When Redis is unreachable the call is allowed and the error returned.
func (l *RedisLimiter) Allow(ctx context.Context, key string) (Decision, error) {
	start := windowStart(l.settings.now(), l.window)
	reset := start.Add(l.window)
	redisKey := fmt.Sprintf("%s:%s:%d", l.prefix, key, start.Unix())

	pipe := l.client.TxPipeline()
	incr := pipe.Incr(ctx, redisKey)
	pipe.ExpireAt(ctx, redisKey, reset)
	if _, err := pipe.Exec(ctx); err != nil {
		l.settings.log.Error("[RATELIMIT]: redis unavailable, allowing request", zap.String("key", key), zap.Error(err))
		return Decision{Allowed: true, Limit: l.limit, Remaining: l.limit, Reset: reset}, err
	}

	count := int(incr.Val())
	decision := Decision{
		Allowed:   count <= l.limit,
		Limit:     l.limit,
		Remaining: max(l.limit-count, 0),
		Reset:     reset,
	}
	return decision, nil
}
