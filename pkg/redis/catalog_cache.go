package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/geekcommerce/geek-commerce-backend/pkg/logger"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "catalog:"

// CatalogCache keeps JSON encoded catalog reads in Redis.
type CatalogCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCatalogCache(client *redis.Client, ttl time.Duration) *CatalogCache {
	return &CatalogCache{client: client, ttl: ttl}
}

// Get decodes the cached value into dest. A miss returns false with no error.
func (c *CatalogCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	val, err := c.client.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		logger.Error("Failed to read catalog cache", err, map[string]interface{}{
			"key": key,
		})
		return false, err
	}

	if err := json.Unmarshal(val, dest); err != nil {
		logger.Warn("Dropping undecodable catalog cache entry", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
		c.client.Del(ctx, keyPrefix+key)
		return false, nil
	}
	return true, nil
}

func (c *CatalogCache) Set(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, keyPrefix+key, data, c.ttl).Err(); err != nil {
		logger.Error("Failed to write catalog cache", err, map[string]interface{}{
			"key": key,
		})
		return err
	}
	return nil
}

func (c *CatalogCache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = keyPrefix + k
	}
	return c.client.Del(ctx, full...).Err()
}

// DeletePrefix removes every key starting with prefix.
func (c *CatalogCache) DeletePrefix(ctx context.Context, prefix string) error {
	iter := c.client.Scan(ctx, 0, keyPrefix+prefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		logger.Error("Failed to scan catalog cache", err, map[string]interface{}{
			"prefix": prefix,
		})
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}
