package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/giygas/medicine-compare/entities"
	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "medcompare:analysis:"

// RedisCache shares analyses between instances; expiry is left to Redis
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache connects to addr and verifies the connection with PING
func NewRedisCache(ctx context.Context, addr, password string, db int, ttl time.Duration) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}

	return NewRedisCacheWithClient(client, ttl), nil
}

// NewRedisCacheWithClient wraps an existing client
func NewRedisCacheWithClient(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

// Get retrieves an analysis; a missing key is a miss, not an error
func (c *RedisCache) Get(ctx context.Context, key string) (entities.MedicineAnalysis, bool, error) {
	raw, err := c.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return entities.MedicineAnalysis{}, false, nil
	}
	if err != nil {
		return entities.MedicineAnalysis{}, false, fmt.Errorf("failed to get from cache: %w", err)
	}

	analysis := entities.NewMedicineAnalysis()
	if err := json.Unmarshal(raw, &analysis); err != nil {
		return entities.MedicineAnalysis{}, false, fmt.Errorf("failed to decode cached analysis: %w", err)
	}
	return analysis, true, nil
}

// Set stores an analysis with the configured TTL
func (c *RedisCache) Set(ctx context.Context, key string, analysis entities.MedicineAnalysis) error {
	raw, err := json.Marshal(analysis)
	if err != nil {
		return fmt.Errorf("failed to encode analysis: %w", err)
	}
	if err := c.client.Set(ctx, redisKeyPrefix+key, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set in cache: %w", err)
	}
	return nil
}

// Sweep is a no-op, Redis expires keys itself
func (c *RedisCache) Sweep(context.Context) int {
	return 0
}

// Len is not tracked for Redis
func (c *RedisCache) Len() int {
	return 0
}

// Ping checks the connection, used by the health checker
func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close closes the underlying client
func (c *RedisCache) Close() error {
	return c.client.Close()
}
