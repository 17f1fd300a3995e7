// Package payment guards payment confirmations against replay.
package payment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "payment:confirmation:"

// RedisGuard remembers applied payment confirmation ids for a limited time.
type RedisGuard struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisGuard(client *redis.Client, ttl time.Duration) *RedisGuard {
	return &RedisGuard{client: client, ttl: ttl}
}

// Claim records paymentID against orderID. When the id was already claimed
// it returns false and the order that holds it.
func (g *RedisGuard) Claim(ctx context.Context, paymentID, orderID string) (bool, string, error) {
	key := keyPrefix + paymentID
	ok, err := g.client.SetNX(ctx, key, orderID, g.ttl).Result()
	if err != nil {
		return false, "", fmt.Errorf("claiming payment %s: %w", paymentID, err)
	}
	if ok {
		return true, orderID, nil
	}

	holder, err := g.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		// expired between the two calls
		return false, "", nil
	}
	if err != nil {
		return false, "", fmt.Errorf("reading payment claim %s: %w", paymentID, err)
	}
	return false, holder, nil
}

// Forget releases a claim whose payment could not be applied.
func (g *RedisGuard) Forget(ctx context.Context, paymentID string) error {
	if err := g.client.Del(ctx, keyPrefix+paymentID).Err(); err != nil {
		return fmt.Errorf("releasing payment %s: %w", paymentID, err)
	}
	return nil
}
