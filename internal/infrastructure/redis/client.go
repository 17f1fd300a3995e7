package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"supplyhub/internal/config"
)

// NewClient connects to Redis. It returns a nil client when no address is configured,
// in which case callers run without the cache and the payment guard.
func NewClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	if cfg.Addr == "" {
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}

	return client, nil
}
