package kvstore

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/tanjung-residence/siskamling/attendance-service/internal/config"
	"github.com/tanjung-residence/siskamling/attendance-service/internal/core/ports"
	"github.com/tanjung-residence/siskamling/attendance-service/internal/metrics"
)

// RedisClient is the subset of *redis.Client used by RedisStore.
type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Ping(ctx context.Context) *redis.StatusCmd
	Close() error
}

// RedisStore implements ports.KeyValueStore on plain Redis strings.
type RedisStore struct {
	client RedisClient
	cb     *gobreaker.CircuitBreaker
}

var _ ports.KeyValueStore = (*RedisStore)(nil)

func NewRedisStore(client RedisClient, logger *zap.Logger) *RedisStore {
	return &RedisStore{
		client: client,
		cb:     config.NewCircuitBreaker("Redis-Store", logger),
	}
}

// DialRedis connects and pings the server.
func DialRedis(ctx context.Context, addr, password string, db int, logger *zap.Logger) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return NewRedisStore(client, logger), nil
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	start := time.Now()
	res, err := s.cb.Execute(func() (interface{}, error) {
		v, err := s.client.Get(ctx, key).Result()
		if errors.Is(err, redis.Nil) {
			return lookup{}, nil
		}
		if err != nil {
			return nil, err
		}
		return lookup{value: v, found: true}, nil
	})
	metrics.ObserveStoreOp("redis", "get", time.Since(start), err)
	if err != nil {
		return "", false, err
	}
	v := res.(lookup)
	return v.value, v.found, nil
}

func (s *RedisStore) Set(ctx context.Context, key, value string) error {
	start := time.Now()
	_, err := s.cb.Execute(func() (interface{}, error) {
		return nil, s.client.Set(ctx, key, value, 0).Err()
	})
	metrics.ObserveStoreOp("redis", "set", time.Since(start), err)
	return err
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
