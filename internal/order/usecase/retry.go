package usecase

import (
	"context"
	"math/rand"
	"time"

	"go.uber.org/zap"

	apperrors "supplyhub/internal/errors"
)

const defaultRetryBase = 100 * time.Millisecond

// deadlockRetrier re-runs a transactional operation when MySQL picks it as a
// deadlock victim. Every attempt is a fresh transaction, so a retry never
// observes a partially applied earlier attempt.
type deadlockRetrier struct {
	maxAttempts int
	base        time.Duration
	logger      *zap.Logger
}

func newDeadlockRetrier(maxAttempts int, logger *zap.Logger) deadlockRetrier {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return deadlockRetrier{maxAttempts: maxAttempts, base: defaultRetryBase, logger: logger}
}

func (r deadlockRetrier) run(ctx context.Context, op string, fn func() error) error {
	for attempt := 1; ; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		if !apperrors.IsMySQLDeadlock(err) {
			return err
		}
		if attempt >= r.maxAttempts {
			r.logger.Warn("deadlock retries exhausted", zap.String("op", op), zap.Int("attempts", attempt))
			return apperrors.NewDeadlockError("max retries exceeded")
		}

		r.logger.Warn("deadlock detected, retrying", zap.String("op", op), zap.Int("attempt", attempt), zap.Int("maxAttempts", r.maxAttempts))
		if err := sleepContext(ctx, r.backoff(attempt)); err != nil {
			return err
		}
	}
}

// backoff grows linearly with the attempt and adds ±20% jitter.
func (r deadlockRetrier) backoff(attempt int) time.Duration {
	base := r.base * time.Duration(attempt)
	if base <= 0 {
		return 0
	}
	jitter := time.Duration(float64(base) * (rand.Float64()*0.4 - 0.2))
	return base + jitter
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
