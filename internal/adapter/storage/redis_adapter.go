package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisAdapter stores one preferences namespace as plain Redis string keys
// of the form "<namespace>:<key>".
type RedisAdapter struct {
	client    *redis.Client
	namespace string
}

func NewRedisAdapter(client *redis.Client, namespace string) *RedisAdapter {
	return &RedisAdapter{client: client, namespace: namespace}
}

func (r *RedisAdapter) GetString(ctx context.Context, key, defValue string) (string, error) {
	value, err := r.client.Get(ctx, r.redisKey(key)).Result()
	if errors.Is(err, redis.Nil) {
		return defValue, nil
	}
	if err != nil {
		return "", fmt.Errorf("redis get %s: %w", key, err)
	}

	return value, nil
}

func (r *RedisAdapter) PutString(ctx context.Context, key, value string) error {
	if err := r.client.Set(ctx, r.redisKey(key), value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (r *RedisAdapter) Close() error {
	return r.client.Close()
}

func (r *RedisAdapter) redisKey(key string) string {
	return r.namespace + ":" + key
}
