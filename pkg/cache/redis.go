// Package cache wraps the go-redis client with the handful of operations this
// service needs: plain values for sessions and hashes for guest carts.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/wyfcoding/fruitable/pkg/logger"
)

type Config struct {
	Host         string
	Port         int
	Password     string
	DB           int
	MaxPoolSize  int
	ReadTimeout  int
	WriteTimeout int
}

type RedisCache struct {
	client *redis.Client
	config Config
}

func New(cfg Config) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.MaxPoolSize,
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info(context.Background(), "redis connected", "addr", fmt.Sprintf("%s:%d", cfg.Host, cfg.Port))
	return &RedisCache{client: client, config: cfg}, nil
}

func (rc *RedisCache) Get(ctx context.Context, key string) (string, error) {
	val, err := rc.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		logger.Error(ctx, "redis GET failed", "key", key, "error", err)
		return "", err
	}
	return val, nil
}

func (rc *RedisCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	if err := rc.client.Set(ctx, key, value, expiration).Err(); err != nil {
		logger.Error(ctx, "redis SET failed", "key", key, "error", err)
		return err
	}
	return nil
}

func (rc *RedisCache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := rc.client.Del(ctx, keys...).Err(); err != nil {
		logger.Error(ctx, "redis DEL failed", "keys", keys, "error", err)
		return err
	}
	return nil
}

func (rc *RedisCache) HSet(ctx context.Context, key string, values ...interface{}) error {
	if err := rc.client.HSet(ctx, key, values...).Err(); err != nil {
		logger.Error(ctx, "redis HSET failed", "key", key, "error", err)
		return err
	}
	return nil
}

func (rc *RedisCache) HDel(ctx context.Context, key string, fields ...string) error {
	if err := rc.client.HDel(ctx, key, fields...).Err(); err != nil {
		logger.Error(ctx, "redis HDEL failed", "key", key, "error", err)
		return err
	}
	return nil
}

func (rc *RedisCache) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	vals, err := rc.client.HGetAll(ctx, key).Result()
	if err != nil {
		logger.Error(ctx, "redis HGETALL failed", "key", key, "error", err)
		return nil, err
	}
	return vals, nil
}

func (rc *RedisCache) Expire(ctx context.Context, key string, expiration time.Duration) error {
	if err := rc.client.Expire(ctx, key, expiration).Err(); err != nil {
		logger.Error(ctx, "redis EXPIRE failed", "key", key, "error", err)
		return err
	}
	return nil
}

func (rc *RedisCache) Close() error {
	return rc.client.Close()
}
