//go:build e2e

package lock_test

import (
	"context"
	"testing"
	"time"

	"mentor-booking/internal/infra/lock"
	"mentor-booking/internal/pkg/config"
	"mentor-booking/tests/e2e"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLocker(t *testing.T) *lock.RedisLocker {
	t.Helper()
	client := lock.NewRedisClient(config.RedisConfig{Addr: e2e.StartRedis(t)})
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, client.Ping(context.Background()).Err())
	return lock.NewRedisLocker(client)
}

func TestRedisLocker(t *testing.T) {
	ctx := context.Background()
	locker := newLocker(t)

	t.Run("second holder is refused until release", func(t *testing.T) {
		key := "sweeper-" + uuid.NewString()

		release, ok, err := locker.TryAcquire(ctx, key, time.Minute)
		require.NoError(t, err)
		require.True(t, ok)

		_, ok, err = locker.TryAcquire(ctx, key, time.Minute)
		require.NoError(t, err)
		assert.False(t, ok)

		require.NoError(t, release(ctx))

		release2, ok, err := locker.TryAcquire(ctx, key, time.Minute)
		require.NoError(t, err)
		assert.True(t, ok)
		require.NoError(t, release2(ctx))
	})

	t.Run("ttl frees an abandoned lock", func(t *testing.T) {
		key := "sweeper-" + uuid.NewString()

		_, ok, err := locker.TryAcquire(ctx, key, 200*time.Millisecond)
		require.NoError(t, err)
		require.True(t, ok)

		require.Eventually(t, func() bool {
			release, ok, err := locker.TryAcquire(ctx, key, time.Minute)
			if err != nil || !ok {
				return false
			}
			_ = release(ctx)
			return true
		}, 5*time.Second, 100*time.Millisecond)
	})

	t.Run("stale release leaves the new holder alone", func(t *testing.T) {
		key := "sweeper-" + uuid.NewString()

		staleRelease, ok, err := locker.TryAcquire(ctx, key, 200*time.Millisecond)
		require.NoError(t, err)
		require.True(t, ok)

		var release func(context.Context) error
		require.Eventually(t, func() bool {
			release, ok, err = locker.TryAcquire(ctx, key, time.Minute)
			return err == nil && ok
		}, 5*time.Second, 100*time.Millisecond)

		require.NoError(t, staleRelease(ctx))

		_, ok, err = locker.TryAcquire(ctx, key, time.Minute)
		require.NoError(t, err)
		assert.False(t, ok, "stale release must not drop the current holder")

		require.NoError(t, release(ctx))
	})
}
