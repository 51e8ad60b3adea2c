package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"CandleSage/internal/model"
)

// RedisCache stores predictions in Redis as JSON, for deployments running
// more than one bot instance against the same upstream.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache connects to Redis and verifies the connection.
func NewRedisCache(addr, password string, db int) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &RedisCache{client: client}, nil
}

func (rc *RedisCache) Get(ctx context.Context, key string) (*model.Prediction, error) {
	payload, err := rc.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var pred model.Prediction
	if err := json.Unmarshal(payload, &pred); err != nil {
		return nil, fmt.Errorf("decode cached prediction: %w", err)
	}
	return &pred, nil
}

func (rc *RedisCache) Set(ctx context.Context, key string, pred *model.Prediction, ttl time.Duration) error {
	payload, err := json.Marshal(pred)
	if err != nil {
		return fmt.Errorf("encode prediction: %w", err)
	}
	if err := rc.client.Set(ctx, key, payload, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (rc *RedisCache) Close() error {
	return rc.client.Close()
}
