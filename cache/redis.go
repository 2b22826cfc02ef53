package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix  = "shortlink:"
	defaultTTL = 10 * time.Minute
)

// RedisCache implements LinkCache using Redis.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache connects to Redis and verifies connectivity with a ping.
func NewRedisCache(addr, password string, db int) (*RedisCache, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}

	return &RedisCache{client: rdb, ttl: defaultTTL}, nil
}

func (c *RedisCache) Get(ctx context.Context, code string) (string, error) {
	target, err := c.client.Get(ctx, keyPrefix+code).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrCacheMiss
		}
		return "", err
	}
	return target, nil
}

func (c *RedisCache) Set(ctx context.Context, code, originalURL string) error {
	return c.client.Set(ctx, keyPrefix+code, originalURL, c.ttl).Err()
}

func (c *RedisCache) Delete(ctx context.Context, code string) error {
	return c.client.Del(ctx, keyPrefix+code).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}
