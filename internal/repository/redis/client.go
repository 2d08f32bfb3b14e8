package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/iamasit07/dropfour/internal/domain"
	"github.com/redis/go-redis/v9"
)

// NewClient connects to Redis. A failed ping returns the client anyway
// together with the error so the caller can decide to run without a cache.
func NewClient(ctx context.Context, addr, password string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return client, fmt.Errorf("could not connect to redis at %s: %w", addr, err)
	}
	return client, nil
}

// RedisCache acts as a wrapper around redis.Client to implement the session cache
type RedisCache struct {
	client *redis.Client
}

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

// Set stores a key-value pair with expiration
func (r *RedisCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return r.client.Set(ctx, key, value, expiration).Err()
}

// Get retrieves a value by key, domain.ErrCacheMiss when absent.
func (r *RedisCache) Get(ctx context.Context, key string) (string, error) {
	val, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", domain.ErrCacheMiss
	}
	return val, err
}

// Del deletes keys
func (r *RedisCache) Del(ctx context.Context, keys ...string) error {
	return r.client.Del(ctx, keys...).Err()
}
