// Package retry provides caller-level retry with exponential backoff for
// transient failures.
//
// The orchestration core never retries internally: throttling, server and
// availability errors propagate out of a query as categorized errors. Wrap
// the call with [Do] to retry the ones that report themselves retryable.
package retry

import (
	"context"
	"math"
	"math/rand/v2"
	"time"

	ai "github.com/xpand-io/bedrockai"
)

// Config holds retry parameters.
type Config struct {
	// MaxAttempts is the maximum number of attempts; the initial call
	// counts as attempt 1.
	MaxAttempts int

	// InitialDelay is the base delay before the first retry.
	InitialDelay time.Duration

	// MaxDelay caps the delay between retries.
	MaxDelay time.Duration

	// Multiplier is the exponential backoff multiplier.
	Multiplier float64

	// Jitter randomizes each delay by up to the given fraction in either
	// direction, to avoid thundering herds.
	Jitter float64
}

// DefaultConfig returns 5 attempts, 1s initial delay doubling up to 30s,
// with 10% jitter.
func DefaultConfig() Config {
	return Config{
		MaxAttempts:  5,
		InitialDelay: time.Second,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
		Jitter:       0.1,
	}
}

// Disabled returns a configuration that allows a single attempt only.
func Disabled() Config {
	return Config{MaxAttempts: 1}
}

// Delay calculates the backoff for a given attempt number (0-indexed).
func (c Config) Delay(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	delay := float64(c.InitialDelay) * math.Pow(c.Multiplier, float64(attempt))
	if delay > float64(c.MaxDelay) {
		delay = float64(c.MaxDelay)
	}
	if c.Jitter > 0 {
		delay *= 1.0 + (rand.Float64()*2-1)*c.Jitter
	}
	return time.Duration(delay)
}

// Do executes fn until it succeeds, fails with a non-retryable error, or
// exhausts the configured attempts. Backoff waits respect context
// cancellation. Retryability is decided by ai.IsRetryable.
func Do[T any](ctx context.Context, cfg Config, fn func() (T, error)) (T, error) {
	var zero T
	var lastErr error

	for attempt := 0; attempt < cfg.MaxAttempts; attempt++ {
		result, err := fn()
		if err == nil {
			return result, nil
		}
		lastErr = err

		if !ai.IsRetryable(err) {
			return zero, err
		}
		if attempt == cfg.MaxAttempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(cfg.Delay(attempt)):
		}
	}
	return zero, lastErr
}

// DoStream is like Do for functions that open a stream: it retries the
// connection establishment, not individual events.
func DoStream[T any](ctx context.Context, cfg Config, fn func() (<-chan T, error)) (<-chan T, error) {
	ch, err := Do(ctx, cfg, func() (<-chan T, error) { return fn() })
	if err != nil {
		return nil, err
	}
	return ch, nil
}
