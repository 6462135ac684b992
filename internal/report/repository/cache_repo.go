package repository

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	reportCacheKeyPrefix = "report:cache:" // report:cache:{sha256(prompt)}
	defaultCacheTTL      = 24 * time.Hour
)

// CacheRepository stores generated reports in Redis keyed by prompt hash.
type CacheRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCacheRepository creates a CacheRepository. A non-positive ttl falls back
// to 24h.
func NewCacheRepository(client *redis.Client, ttl time.Duration) *CacheRepository {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &CacheRepository{client: client, ttl: ttl}
}

// Get returns the cached report for prompt, if any.
func (r *CacheRepository) Get(ctx context.Context, prompt string) (string, bool, error) {
	report, err := r.client.Get(ctx, CacheKey(prompt)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get cached report: %w", err)
	}
	return report, true, nil
}

// Set caches report for prompt.
func (r *CacheRepository) Set(ctx context.Context, prompt, report string) error {
	if err := r.client.Set(ctx, CacheKey(prompt), report, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache report: %w", err)
	}
	return nil
}

// CacheKey derives the Redis key for prompt.
func CacheKey(prompt string) string {
	sum := sha256.Sum256([]byte(prompt))
	return reportCacheKeyPrefix + hex.EncodeToString(sum[:])
}
