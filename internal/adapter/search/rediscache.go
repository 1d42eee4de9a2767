package search

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fairyhunter13/ai-fortune-teller/internal/domain"
)

// RedisCache memoizes suggestion results per lowercased query. Cache
// failures are logged and treated as misses so search never depends on
// Redis being up.
type RedisCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisCache wraps an existing Redis client. Returns nil for a nil
// client so callers can wire the cache optionally.
func NewRedisCache(rdb *redis.Client, ttl time.Duration) *RedisCache {
	if rdb == nil {
		return nil
	}
	return &RedisCache{rdb: rdb, ttl: ttl}
}

func cacheKey(query string) string {
	return "suggest:" + strings.ToLower(strings.TrimSpace(query))
}

// Get returns the cached suggestions for query, if any.
func (c *RedisCache) Get(ctx context.Context, query string) ([]domain.JobSuggestion, bool) {
	b, err := c.rdb.Get(ctx, cacheKey(query)).Bytes()
	if err != nil {
		if err != redis.Nil {
			slog.Debug("suggestion cache get failed", slog.Any("error", err))
		}
		return nil, false
	}
	var out []domain.JobSuggestion
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, false
	}
	return out, true
}

// Set stores suggestions for query with the configured TTL.
func (c *RedisCache) Set(ctx context.Context, query string, suggestions []domain.JobSuggestion) {
	b, err := json.Marshal(suggestions)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, cacheKey(query), b, c.ttl).Err(); err != nil {
		slog.Debug("suggestion cache set failed", slog.Any("error", err))
	}
}
