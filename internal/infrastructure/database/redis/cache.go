package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/turtacn/PatentLens/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/PatentLens/pkg/errors"
)

// ErrCacheMiss is returned by Get for absent keys.
var ErrCacheMiss = errors.New(errors.ErrCodeNotFound, "cache miss")

// Cache is a JSON value cache on top of Redis. All keys share a configured
// prefix so the whole installation can coexist with other users of the
// same Redis database.
type Cache struct {
	client *Client
	prefix string
	logger logging.Logger
}

// NewCache creates a cache over client; prefix is prepended to every key.
func NewCache(client *Client, prefix string, logger logging.Logger) *Cache {
	return &Cache{client: client, prefix: prefix, logger: logger}
}

func (c *Cache) fullKey(key string) string {
	return c.prefix + key
}

// Get loads the JSON value for key into dest. Returns ErrCacheMiss for
// absent keys.
func (c *Cache) Get(ctx context.Context, key string, dest interface{}) error {
	raw, err := c.client.rdb.Get(ctx, c.fullKey(key)).Bytes()
	if err == redis.Nil {
		return ErrCacheMiss
	}
	if err != nil {
		return errors.Wrap(err, errors.CodeCacheError, "cache get")
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "decode cached value")
	}
	return nil
}

// Set stores value as JSON under key with the given TTL.
func (c *Cache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "encode cache value")
	}
	if err := c.client.rdb.Set(ctx, c.fullKey(key), raw, ttl).Err(); err != nil {
		return errors.Wrap(err, errors.CodeCacheError, "cache set")
	}
	return nil
}

// Delete removes the given keys.
func (c *Cache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = c.fullKey(k)
	}
	if err := c.client.rdb.Del(ctx, full...).Err(); err != nil {
		return errors.Wrap(err, errors.CodeCacheError, "cache delete")
	}
	return nil
}

// DeleteByPrefix removes every key under the given prefix using SCAN, so
// large keyspaces are not blocked by a KEYS call.
func (c *Cache) DeleteByPrefix(ctx context.Context, prefix string) error {
	pattern := c.fullKey(prefix) + "*"
	iter := c.client.rdb.Scan(ctx, 0, pattern, 100).Iterator()

	var batch []string
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) >= 100 {
			if err := c.client.rdb.Del(ctx, batch...).Err(); err != nil {
				return errors.Wrap(err, errors.CodeCacheError, "cache delete by prefix")
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return errors.Wrap(err, errors.CodeCacheError, "cache scan")
	}
	if len(batch) > 0 {
		if err := c.client.rdb.Del(ctx, batch...).Err(); err != nil {
			return errors.Wrap(err, errors.CodeCacheError, "cache delete by prefix")
		}
	}
	return nil
}
