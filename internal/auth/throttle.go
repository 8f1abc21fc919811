package auth

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// LoginThrottle counts failed login attempts per client in Redis. A nil
// throttle or nil client disables throttling.
type LoginThrottle struct {
	client *redis.Client
	limit  int
	window time.Duration
}

// NewLoginThrottle constructs a throttle with the given failure budget.
func NewLoginThrottle(client *redis.Client, limit int, window time.Duration) *LoginThrottle {
	return &LoginThrottle{client: client, limit: limit, window: window}
}

// Blocked reports whether the client exhausted its failure budget.
func (t *LoginThrottle) Blocked(ctx context.Context, key string) (bool, error) {
	if t == nil || t.client == nil || t.limit <= 0 {
		return false, nil
	}
	count, err := t.client.Get(ctx, t.redisKey(key)).Int()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}
	return count >= t.limit, nil
}

// RecordFailure increments the failure counter and refreshes its window.
func (t *LoginThrottle) RecordFailure(ctx context.Context, key string) error {
	if t == nil || t.client == nil {
		return nil
	}
	pipe := t.client.TxPipeline()
	pipe.Incr(ctx, t.redisKey(key))
	pipe.Expire(ctx, t.redisKey(key), t.window)
	_, err := pipe.Exec(ctx)
	return err
}

// Reset clears the counter after a successful login.
func (t *LoginThrottle) Reset(ctx context.Context, key string) error {
	if t == nil || t.client == nil {
		return nil
	}
	return t.client.Del(ctx, t.redisKey(key)).Err()
}

func (t *LoginThrottle) redisKey(key string) string {
	return "login_attempts:" + key
}
