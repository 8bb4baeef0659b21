package clientstorage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"association-storefront/internal/domain"
	"github.com/redis/go-redis/v9"
)

// RedisRepo keeps slots as plain string values. A zero ttl stores them
// without expiry.
type RedisRepo struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedis(client *redis.Client, ttl time.Duration) *RedisRepo {
	return &RedisRepo{client: client, ttl: ttl}
}

func (r *RedisRepo) Get(ctx context.Context, profileID, key string) ([]byte, error) {
	data, err := r.client.Get(ctx, slotKey(profileID, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}
	return data, nil
}

func (r *RedisRepo) Set(ctx context.Context, profileID, key string, value []byte) error {
	if err := r.client.Set(ctx, slotKey(profileID, key), value, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r *RedisRepo) Delete(ctx context.Context, profileID, key string) error {
	n, err := r.client.Del(ctx, slotKey(profileID, key)).Result()
	if err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *RedisRepo) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func slotKey(profileID, key string) string {
	return fmt.Sprintf("storage:%s:%s", profileID, key)
}
