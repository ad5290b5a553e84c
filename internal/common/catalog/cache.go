package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"purchase-advisor/internal/common/logger"
	"purchase-advisor/internal/models"
)

const cacheKeyPrefix = "catalog:search:"

// CachedSearcher serves repeated queries from Redis. Cache failures are
// logged and fall through to the wrapped searcher; empty results and
// errors are never cached.
type CachedSearcher struct {
	next   Searcher
	rdb    *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

func NewCachedSearcher(next Searcher, rdb *redis.Client, ttl time.Duration, log logger.Logger) *CachedSearcher {
	return &CachedSearcher{next: next, rdb: rdb, ttl: ttl, logger: log}
}

func CacheKey(query string) string {
	return cacheKeyPrefix + strings.Join(strings.Fields(strings.ToLower(query)), " ")
}

func (c *CachedSearcher) Search(ctx context.Context, query string) ([]models.SearchResult, error) {
	key := CacheKey(query)

	if cached, ok := c.get(ctx, key); ok {
		return cached, nil
	}

	results, err := c.next.Search(ctx, query)
	if err != nil || len(results) == 0 {
		return results, err
	}

	c.set(ctx, key, results)
	return results, nil
}

func (c *CachedSearcher) get(ctx context.Context, key string) ([]models.SearchResult, bool) {
	val, err := c.rdb.Get(ctx, key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("catalog cache read failed", map[string]interface{}{"key": key, "error": err.Error()})
		}
		return nil, false
	}

	var results []models.SearchResult
	if err := json.Unmarshal([]byte(val), &results); err != nil {
		c.logger.Warn("catalog cache entry corrupt", map[string]interface{}{"key": key})
		return nil, false
	}
	return results, true
}

func (c *CachedSearcher) set(ctx context.Context, key string, results []models.SearchResult) {
	data, err := json.Marshal(results)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.logger.Warn("catalog cache write failed", map[string]interface{}{"key": key, "error": err.Error()})
	}
}
