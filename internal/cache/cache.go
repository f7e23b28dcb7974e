package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache is a thin wrapper around redis used for read-heavy listings.
// A nil *Cache is valid and turns every operation into a no-op, so the
// API keeps working when redis is unavailable.
type Cache struct {
	client *redis.Client
}

func New(addr, password string) (*Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}
	return &Cache{client: client}, nil
}

func (c *Cache) Get(ctx context.Context, key string) (string, bool) {
	if c == nil {
		return "", false
	}
	val, err := c.client.Get(ctx, key).Result()
	if err != nil {
		return "", false
	}
	return val, true
}

func (c *Cache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	if c == nil {
		return nil
	}
	return c.client.Set(ctx, key, value, ttl).Err()
}

func (c *Cache) Delete(ctx context.Context, keys ...string) error {
	if c == nil {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

func (c *Cache) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}
