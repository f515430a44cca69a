package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Cache is a thin TTL memoization layer over Redis. A nil Cache (or one
// whose Redis connection failed) degrades to computing every value fresh,
// so callers never need to branch on availability.
type Cache struct {
	client *redis.Client
	log    *logrus.Logger
}

// New connects to Redis and returns a cache. An empty addr or a failed ping
// returns a disabled cache rather than an error.
func New(addr, password string, log *logrus.Logger) *Cache {
	if addr == "" {
		log.Info("Redis address not set, caching disabled")
		return &Cache{log: log}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Warnf("Failed to connect to Redis at %s, caching disabled: %v", addr, err)
		return &Cache{log: log}
	}

	log.Infof("Connected to Redis at %s", addr)
	return &Cache{client: client, log: log}
}

// GetOrCompute returns the cached value for key, or invokes compute, stores
// its result with the given TTL and returns it. Cache errors are logged and
// treated as misses; compute errors propagate.
func (c *Cache) GetOrCompute(ctx context.Context, key string, ttl time.Duration, dest interface{}, compute func() (interface{}, error)) error {
	if c != nil && c.client != nil {
		val, err := c.client.Get(ctx, key).Result()
		if err == nil {
			if err := json.Unmarshal([]byte(val), dest); err == nil {
				return nil
			}
			c.log.Warnf("Discarding malformed cache entry %s", key)
		} else if err != redis.Nil {
			c.log.Warnf("Cache read failed for %s: %v", key, err)
		}
	}

	value, err := compute()
	if err != nil {
		return err
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}
	if c != nil && c.client != nil {
		if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
			c.log.Warnf("Cache write failed for %s: %v", key, err)
		}
	}
	return json.Unmarshal(data, dest)
}

// Delete removes keys from the cache, used to invalidate after writes
func (c *Cache) Delete(ctx context.Context, keys ...string) {
	if c == nil || c.client == nil || len(keys) == 0 {
		return
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.log.Warnf("Cache invalidation failed: %v", err)
	}
}

// Close closes the Redis connection
func (c *Cache) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}
