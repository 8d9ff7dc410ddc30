// Package lock serializes critical sections across API instances with
// Redis-backed locks.
package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"

	"github.com/luxbiz/biz-optimizer/internal/platform/apperr"
	"github.com/luxbiz/biz-optimizer/internal/platform/logging"
)

var ErrBusy = fmt.Errorf("%w: another request is already working on this", apperr.ErrConflict)

type Locker struct {
	client *redislock.Client
	ttl    time.Duration
	retry  redislock.RetryStrategy
}

func New(rdb *redis.Client) *Locker {
	return &Locker{
		client: redislock.New(rdb),
		ttl:    30 * time.Second,
		retry:  redislock.LimitRetry(redislock.LinearBackoff(50*time.Millisecond), 60),
	}
}

// WithLock runs fn while holding key. Waiters retry for a few seconds before
// giving up with ErrBusy.
func (l *Locker) WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	lk, err := l.client.Obtain(ctx, key, l.ttl, &redislock.Options{RetryStrategy: l.retry})
	if errors.Is(err, redislock.ErrNotObtained) {
		return ErrBusy
	}
	if err != nil {
		return fmt.Errorf("obtain lock %s: %w", key, err)
	}
	defer func() {
		if err := lk.Release(context.WithoutCancel(ctx)); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			logging.FromContext(ctx).LogWarnf("lock.release", "release %s: %v", key, err)
		}
	}()

	return fn(ctx)
}
