package trivia

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultCategoryTTL = 5 * time.Minute
	categoryCacheKey   = "trivia:categories"
)

// CategoryCache holds the category map between requests. Get returns nil, nil on a miss.
type CategoryCache interface {
	Get(ctx context.Context) (map[int]string, error)
	Set(ctx context.Context, categories map[int]string) error
}

// RedisCategoryCache is the Redis-backed CategoryCache. Categories are
// read-only through the API so a TTL is the only invalidation.
type RedisCategoryCache struct {
	client *redis.Client
	ttl    time.Duration
}

var _ CategoryCache = (*RedisCategoryCache)(nil)

func NewRedisCategoryCache(client *redis.Client, ttl time.Duration) *RedisCategoryCache {
	if ttl <= 0 {
		ttl = defaultCategoryTTL
	}
	return &RedisCategoryCache{client: client, ttl: ttl}
}

func (c *RedisCategoryCache) Get(ctx context.Context) (map[int]string, error) {
	data, err := c.client.Get(ctx, categoryCacheKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	var categories map[int]string
	if err := json.Unmarshal(data, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (c *RedisCategoryCache) Set(ctx context.Context, categories map[int]string) error {
	data, err := json.Marshal(categories)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, categoryCacheKey, data, c.ttl).Err()
}

// Ping checks the Redis connection.
func (c *RedisCategoryCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
