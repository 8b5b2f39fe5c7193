package lock

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestRedis connects to TEST_REDIS_URL or skips the test.
func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("TEST_REDIS_URL not set")
	}
	opt, err := redis.ParseURL(url)
	require.NoError(t, err)

	rdb := redis.NewClient(opt)
	require.NoError(t, rdb.Ping(context.Background()).Err())
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func TestRedisLocker_ExclusiveUntilReleased(t *testing.T) {
	rdb := newTestRedis(t)
	l := NewRedisLocker(rdb, 5*time.Second, 100*time.Millisecond, zerolog.Nop())
	ctx := context.Background()
	key := "test:lock:" + uuid.NewString()

	unlock, err := l.Lock(ctx, key)
	require.NoError(t, err)

	_, err = l.Lock(ctx, key)
	assert.ErrorIs(t, err, ErrLockTimeout)

	unlock()

	again, err := l.Lock(ctx, key)
	require.NoError(t, err)
	again()

	n, err := rdb.Exists(ctx, key).Result()
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestRedisLocker_ReleaseKeepsForeignToken(t *testing.T) {
	rdb := newTestRedis(t)
	l := NewRedisLocker(rdb, 50*time.Millisecond, time.Second, zerolog.Nop())
	ctx := context.Background()
	key := "test:lock:" + uuid.NewString()

	stale, err := l.Lock(ctx, key)
	require.NoError(t, err)

	// The first holder's TTL lapses and a second holder takes over.
	fresh, err := l.Lock(ctx, key)
	require.NoError(t, err)

	stale()
	n, err := rdb.Exists(ctx, key).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	fresh()
}
