package utils

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// RetryConfig holds the parameters for the retry strategy.
// It is used for infrastructure connections only; feed loads are single-attempt.
type RetryConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Logger      *Logger
}

// Do executes fn with exponential back-off until it succeeds, MaxAttempts is
// reached, or ctx is done.
func (r *RetryConfig) Do(ctx context.Context, operationName string, fn func() error) error {
	attempts := r.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = r.BaseDelay
	eb.Multiplier = 2
	eb.RandomizationFactor = 0

	attempt := 0
	op := func() error {
		attempt++
		return fn()
	}
	notify := func(err error, delay time.Duration) {
		if r.Logger != nil {
			r.Logger.Warn("[retry] %s failed (attempt %d/%d): %v, retrying in %v",
				operationName, attempt, attempts, err, delay)
		}
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(eb, uint64(attempts-1)), ctx)
	if err := backoff.RetryNotify(op, policy, notify); err != nil {
		return fmt.Errorf("%s failed after %d attempts: %w", operationName, attempt, err)
	}
	return nil
}
