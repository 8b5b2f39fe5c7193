package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// releaseScript deletes the lock only if it is still owned by the caller's token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLocker is a Locker shared between instances through Redis.
// A lock is a key holding a random token with a TTL; it expires on its own
// if the holder dies before releasing it.
type RedisLocker struct {
	rdb          *redis.Client
	ttl          time.Duration
	wait         time.Duration
	pollInterval time.Duration
	log          zerolog.Logger
}

// NewRedisLocker creates a RedisLocker. ttl bounds how long a lock may be
// held, wait bounds how long Lock keeps retrying.
func NewRedisLocker(rdb *redis.Client, ttl, wait time.Duration, log zerolog.Logger) *RedisLocker {
	return &RedisLocker{
		rdb:          rdb,
		ttl:          ttl,
		wait:         wait,
		pollInterval: 25 * time.Millisecond,
		log:          log.With().Str("component", "redis_locker").Logger(),
	}
}

// Lock polls SET NX until it wins, the wait elapses or ctx is done.
func (l *RedisLocker) Lock(ctx context.Context, key string) (Unlock, error) {
	token := uuid.NewString()
	deadline := time.Now().Add(l.wait)

	for {
		ok, err := l.rdb.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("acquire lock %s: %w", key, err)
		}
		if ok {
			break
		}
		if time.Now().After(deadline) {
			return nil, ErrLockTimeout
		}

		timer := time.NewTimer(l.pollInterval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	return func() {
		// Release with a fresh context so a cancelled request still frees the key.
		relCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		err := releaseScript.Run(relCtx, l.rdb, []string{key}, token).Err()
		if err != nil && !errors.Is(err, redis.Nil) {
			l.log.Warn().Err(err).Str("key", key).Msg("Failed to release lock")
		}
	}, nil
}
