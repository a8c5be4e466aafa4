// Package ratelimit tracks failed login attempts per account in Redis and
// locks the account out once a threshold is crossed. Keys expire on their own,
// so a quiet account costs nothing.
package ratelimit

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

type LoginLimiter struct {
	redis       *redis.Client
	maxFailures int
	lockFor     time.Duration
}

// NewLoginLimiter creates a limiter that locks an account for lockFor after
// maxFailures consecutive failed attempts.
func NewLoginLimiter(redisClient *redis.Client, maxFailures int, lockFor time.Duration) *LoginLimiter {
	return &LoginLimiter{
		redis:       redisClient,
		maxFailures: maxFailures,
		lockFor:     lockFor,
	}
}

func (l *LoginLimiter) key(email string) string {
	return fmt.Sprintf("login:failures:%s", strings.ToLower(email))
}

// RegisterFailure records one failed attempt and reports whether the account
// is now locked.
func (l *LoginLimiter) RegisterFailure(ctx context.Context, email string) (bool, error) {
	key := l.key(email)

	count, err := l.redis.Incr(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to record login failure: %w", err)
	}

	// Reset the lockout window on every failure so a slow drip of attempts
	// never outlasts it.
	if err := l.redis.Expire(ctx, key, l.lockFor).Err(); err != nil {
		return false, fmt.Errorf("failed to set lockout expiry: %w", err)
	}

	return count >= int64(l.maxFailures), nil
}

// IsLocked reports whether the account has crossed the failure threshold.
func (l *LoginLimiter) IsLocked(ctx context.Context, email string) (bool, error) {
	count, err := l.redis.Get(ctx, l.key(email)).Int64()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check lockout: %w", err)
	}
	return count >= int64(l.maxFailures), nil
}

// Reset clears the failure counter after a successful login.
func (l *LoginLimiter) Reset(ctx context.Context, email string) error {
	if err := l.redis.Del(ctx, l.key(email)).Err(); err != nil {
		return fmt.Errorf("failed to reset login failures: %w", err)
	}
	return nil
}
