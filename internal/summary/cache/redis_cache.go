// Package cache keeps the rendered summary report in Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"supplyhub/internal/domain"
)

const reportKey = "summary:report"

type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

// Get returns the cached report, or nil on a miss.
func (c *RedisCache) Get(ctx context.Context) (*domain.Summary, error) {
	raw, err := c.client.Get(ctx, reportKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading cached summary: %w", err)
	}

	var s domain.Summary
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("decoding cached summary: %w", err)
	}
	return &s, nil
}

func (c *RedisCache) Set(ctx context.Context, s *domain.Summary) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encoding summary: %w", err)
	}
	if err := c.client.Set(ctx, reportKey, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("caching summary: %w", err)
	}
	return nil
}

// Invalidate drops the cached report so the next read recomputes it.
func (c *RedisCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, reportKey).Err(); err != nil {
		return fmt.Errorf("invalidating cached summary: %w", err)
	}
	return nil
}
