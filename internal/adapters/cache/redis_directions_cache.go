package cache

import (
	"context"
	"delivery-routing-engine/internal/platform/obs"
	"delivery-routing-engine/internal/ports"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "directions:"

// RedisDirectionsCache stores provider responses as JSON strings with a TTL.
type RedisDirectionsCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisDirectionsCache(client *redis.Client, ttl time.Duration) *RedisDirectionsCache {
	return &RedisDirectionsCache{client: client, ttl: ttl}
}

// NewRedisClient parses a redis:// URL and verifies the connection.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

func (c *RedisDirectionsCache) Get(
	ctx context.Context,
	key string,
) (_ *ports.DirectionsResponse, _ bool, err error) {
	defer obs.Time(ctx, "directions.cache.redis.Get")(&err)

	if c.client == nil {
		return nil, false, errors.New("directions cache: redis client is nil")
	}

	raw, err := c.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get directions cache: %w", err)
	}

	var resp ports.DirectionsResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, false, fmt.Errorf("get directions cache: decode payload: %w", err)
	}
	return &resp, true, nil
}

func (c *RedisDirectionsCache) Put(
	ctx context.Context,
	key string,
	resp *ports.DirectionsResponse,
) error {
	if c.client == nil {
		return errors.New("directions cache: redis client is nil")
	}
	if resp == nil {
		return nil
	}

	payload, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("insert directions cache: encode payload: %w", err)
	}

	if err := c.client.Set(ctx, redisKeyPrefix+key, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("insert directions cache key=%q: %w", key, err)
	}
	return nil
}
