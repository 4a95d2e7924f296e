package utils

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrLockTimeout is returned when a lock could not be acquired in time.
var ErrLockTimeout = errors.New("timed out waiting for lock")

// releaseScript deletes the key only if it still holds our token, so an expired
// lock taken over by another holder is never released by mistake.
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// RedisLocker is a distributed lock on one redis key per lock name (SET NX PX).
type RedisLocker struct {
	Client *redis.Client
	// TTL bounds how long a crashed holder can block others.
	TTL time.Duration
	// Wait bounds how long Lock retries when ctx has no deadline.
	Wait  time.Duration
	Retry time.Duration
}

func NewRedisLocker(client *redis.Client, ttl time.Duration) *RedisLocker {
	if ttl <= 0 {
		ttl = 10 * time.Second
	}
	return &RedisLocker{Client: client, TTL: ttl, Wait: ttl, Retry: 25 * time.Millisecond}
}

func (l *RedisLocker) Lock(ctx context.Context, key string) (func(), error) {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.Wait)
		defer cancel()
	}

	name := LockPrefix + key
	token := uuid.New().String()
	delay := l.Retry
	for {
		ok, err := l.Client.SetNX(ctx, name, token, l.TTL).Result()
		if err != nil && !errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, context.Canceled) {
			return nil, fmt.Errorf("acquire lock %s: %w", name, err)
		}
		if ok {
			return func() { l.release(name, token) }, nil
		}

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %s", ErrLockTimeout, name)
		}
		if delay < 200*time.Millisecond {
			delay *= 2
		}
	}
}

func (l *RedisLocker) release(name, token string) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	// A failed release leaves the key to expire after TTL.
	if err := releaseScript.Run(ctx, l.Client, []string{name}, token).Err(); err != nil {
		zap.L().Warn("failed to release lock", zap.String("lock", name), zap.Error(err))
	}
}
