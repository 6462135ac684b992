package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupCacheRepo(t *testing.T, ttl time.Duration) (*CacheRepository, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewCacheRepository(client, ttl), mr
}

func TestCacheRepository_GetSet(t *testing.T) {
	repo, mr := setupCacheRepo(t, time.Hour)
	ctx := context.Background()

	t.Run("miss", func(t *testing.T) {
		report, ok, err := repo.Get(ctx, "prompt-a")
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Empty(t, report)
	})

	t.Run("hit after set", func(t *testing.T) {
		require.NoError(t, repo.Set(ctx, "prompt-a", "report-a"))

		report, ok, err := repo.Get(ctx, "prompt-a")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "report-a", report)
		assert.Equal(t, time.Hour, mr.TTL(CacheKey("prompt-a")))
	})

	t.Run("expires", func(t *testing.T) {
		require.NoError(t, repo.Set(ctx, "prompt-b", "report-b"))
		mr.FastForward(2 * time.Hour)

		_, ok, err := repo.Get(ctx, "prompt-b")
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestCacheRepository_DefaultTTL(t *testing.T) {
	repo, mr := setupCacheRepo(t, 0)
	require.NoError(t, repo.Set(context.Background(), "p", "r"))
	assert.Equal(t, 24*time.Hour, mr.TTL(CacheKey("p")))
}

func TestCacheRepository_RedisDown(t *testing.T) {
	repo, mr := setupCacheRepo(t, time.Hour)
	mr.Close()

	_, _, err := repo.Get(context.Background(), "p")
	assert.Error(t, err)
	assert.Error(t, repo.Set(context.Background(), "p", "r"))
}

func TestCacheKey(t *testing.T) {
	assert.Equal(t, CacheKey("same"), CacheKey("same"))
	assert.NotEqual(t, CacheKey("one"), CacheKey("two"))
	assert.Len(t, CacheKey("x"), len(reportCacheKeyPrefix)+64)
}
