// Package ratelimit throttles anonymous writes with a Redis fixed-window counter.
package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	apperrors "github.com/spec-kit/crm-service/pkg/util"
)

// Decision is the outcome of a single Allow call.
type Decision struct {
	Allowed    bool
	Count      int64
	RetryAfter time.Duration
}

// Limiter counts hits per key inside a fixed window.
type Limiter struct {
	client *redis.Client
	prefix string
	limit  int64
	window time.Duration
	logger *zap.Logger
}

// NewLimiter builds a limiter. A non-positive limit disables it.
func NewLimiter(client *redis.Client, prefix string, limit int, window time.Duration, logger *zap.Logger) *Limiter {
	return &Limiter{client: client, prefix: prefix, limit: int64(limit), window: window, logger: logger}
}

// Enabled reports whether Allow can ever reject.
func (l *Limiter) Enabled() bool {
	return l != nil && l.client != nil && l.limit > 0 && l.window > 0
}

// Allow records a hit for key.
func (l *Limiter) Allow(ctx context.Context, key string) (Decision, error) {
	if !l.Enabled() {
		return Decision{Allowed: true}, nil
	}

	redisKey := fmt.Sprintf("%s:%s", l.prefix, key)
	count, err := l.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return Decision{Allowed: true}, fmt.Errorf("incr %s: %w", redisKey, err)
	}
	if count == 1 {
		if err := l.client.Expire(ctx, redisKey, l.window).Err(); err != nil {
			return Decision{Allowed: true, Count: count}, fmt.Errorf("expire %s: %w", redisKey, err)
		}
	}
	if count <= l.limit {
		return Decision{Allowed: true, Count: count}, nil
	}

	ttl, err := l.client.TTL(ctx, redisKey).Result()
	if err != nil || ttl < 0 {
		// a key without TTL would block forever
		_ = l.client.Expire(ctx, redisKey, l.window).Err()
		ttl = l.window
	}
	return Decision{Allowed: false, Count: count, RetryAfter: ttl}, nil
}

// Middleware rejects requests over the limit, keyed by client IP. Redis
// failures let the request through.
func (l *Limiter) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		decision, err := l.Allow(c.UserContext(), c.IP())
		if err != nil {
			l.logger.Warn("rate limiter unavailable", zap.Error(err))
			return c.Next()
		}
		if !decision.Allowed {
			retry := int64(decision.RetryAfter.Round(time.Second) / time.Second)
			if retry < 1 {
				retry = 1
			}
			c.Set(fiber.HeaderRetryAfter, strconv.FormatInt(retry, 10))
			return apperrors.NewTooManyRequests("Too many enquiries submitted, please try again later", nil)
		}
		return c.Next()
	}
}
