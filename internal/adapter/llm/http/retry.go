package http

import (
	"context"
	"errors"
	"math"
	"time"
)

// RetryConfig holds configuration for retry logic.
//
// Logger, Metrics, and Provider are optional observability hooks: when set,
// every retry decision is logged and counted. They do not affect behavior.
type RetryConfig struct {
	MaxRetries     int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	Multiplier     float64

	Logger   Logger
	Metrics  Metrics
	Provider string
}

// DefaultRetryConfig returns sensible default retry configuration.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:     3,
		InitialBackoff: 1 * time.Second,
		MaxBackoff:     8 * time.Second,
		Multiplier:     2.0,
	}
}

// ExponentialBackoff calculates the wait before retrying a failed attempt.
// Formula: min(initial * multiplier^attempt, maxBackoff). The result is
// deterministic and non-decreasing in attempt until the cap is reached.
func ExponentialBackoff(attempt int, config RetryConfig) time.Duration {
	backoff := float64(config.InitialBackoff) * math.Pow(config.Multiplier, float64(attempt))

	if backoff > float64(config.MaxBackoff) {
		backoff = float64(config.MaxBackoff)
	}
	if backoff < 0 {
		backoff = 0
	}

	return time.Duration(backoff)
}

// ShouldRetry determines if an error is retryable.
func ShouldRetry(err error) bool {
	if err == nil {
		return false
	}

	var httpErr *Error
	if errors.As(err, &httpErr) {
		return httpErr.IsRetryable()
	}

	// Generic errors are not retryable.
	return false
}

// RetryDelay picks the wait before the next attempt. A Retry-After value
// carried on the error overrides the computed exponential backoff for that
// attempt only.
func RetryDelay(err error, attempt int, config RetryConfig) time.Duration {
	var httpErr *Error
	if errors.As(err, &httpErr) && httpErr.RetryAfter > 0 {
		return httpErr.RetryAfter
	}
	return ExponentialBackoff(attempt, config)
}

// Operation is a function that can be retried.
type Operation func(ctx context.Context) error

// RetryWithBackoff executes an operation with exponential backoff retry logic.
//
// The attempt budget is MaxRetries+1 total attempts. Non-retryable errors
// fail immediately without consuming budget on later calls; once the budget
// is exhausted the last error is returned as-is.
func RetryWithBackoff(ctx context.Context, operation Operation, config RetryConfig) error {
	var lastErr error

	for attempt := 0; attempt <= config.MaxRetries; attempt++ {
		// Check context before attempting
		if err := ctx.Err(); err != nil {
			return err
		}

		err := operation(ctx)
		if err == nil {
			return nil
		}

		lastErr = err

		if !ShouldRetry(err) {
			return err // Non-retryable error, fail immediately
		}

		// Budget exhausted: surface the last retryable error
		if attempt >= config.MaxRetries {
			return err
		}

		delay := RetryDelay(err, attempt, config)
		logRetry(ctx, config, attempt, delay, err)

		// Wait with context cancellation support
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	return lastErr
}

// logRetry emits the per-decision observability events when hooks are set.
func logRetry(ctx context.Context, config RetryConfig, attempt int, delay time.Duration, err error) {
	if config.Metrics != nil {
		config.Metrics.RecordRetry(config.Provider)
	}
	if config.Logger == nil {
		return
	}

	entry := RetryLog{
		Provider:   config.Provider,
		Attempt:    attempt + 1,
		MaxRetries: config.MaxRetries,
		Delay:      delay,
		Err:        err,
	}
	var httpErr *Error
	if errors.As(err, &httpErr) {
		entry.StatusCode = httpErr.StatusCode
	}
	config.Logger.LogRetry(ctx, entry)
}
