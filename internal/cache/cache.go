// Package cache keeps short-lived shopper state (carts and checkout
// sessions) in Redis as JSON documents.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrMiss is returned when a key does not exist or has expired.
var ErrMiss = errors.New("cache miss")

type JSONCache struct {
	client *redis.Client
	prefix string
}

func NewJSONCache(client *redis.Client, prefix string) *JSONCache {
	return &JSONCache{client: client, prefix: prefix}
}

func (c *JSONCache) key(id string) string {
	return fmt.Sprintf("%s:%s", c.prefix, id)
}

func (c *JSONCache) Get(ctx context.Context, id string, dest interface{}) error {
	val, err := c.client.Get(ctx, c.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrMiss
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(val, dest)
}

func (c *JSONCache) Set(ctx context.Context, id string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(id), data, ttl).Err()
}

func (c *JSONCache) Delete(ctx context.Context, id string) error {
	return c.client.Del(ctx, c.key(id)).Err()
}

// Claim sets id to a marker only if it is absent. It reports whether this
// caller now holds the key.
func (c *JSONCache) Claim(ctx context.Context, id string, ttl time.Duration) (bool, error) {
	return c.client.SetNX(ctx, c.key(id), 1, ttl).Result()
}
