package retry

import (
	"context"
	"fmt"
	"time"
)

// ExhaustedError reports that every permitted attempt failed with a
// transient error. It distinguishes "the budget ran out" from "the call can
// never succeed"; the wrapped error keeps its transient categorization.
type ExhaustedError struct {
	Attempts int
	Err      error
}

// Error returns the exhaustion message with the attempt count.
func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("retries exhausted after %d attempts: %v", e.Attempts, e.Err)
}

// Unwrap returns the last attempt's error.
func (e *ExhaustedError) Unwrap() error {
	return e.Err
}

// Do executes fn with retry logic. Only transient errors are retried; a
// permanent error returns immediately. When every attempt fails transiently
// the last error is wrapped in an ExhaustedError. Context cancellation is
// respected during backoff waits.
func Do[T any](ctx context.Context, cfg Config, fn func() (T, error)) (T, error) {
	var zero T
	var lastErr error

	attempts := cfg.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	for attempt := 0; attempt < attempts; attempt++ {
		result, err := fn()
		if err == nil {
			return result, nil
		}

		lastErr = err

		if !IsTransient(err) {
			return zero, err
		}

		// Don't sleep after the last attempt.
		if attempt < attempts-1 {
			delay := effectiveDelay(cfg.Delay(attempt), err)

			select {
			case <-ctx.Done():
				return zero, ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return zero, &ExhaustedError{Attempts: attempts, Err: lastErr}
}

// effectiveDelay returns the delay to use, honoring the server's Retry-After
// suggestion when it exceeds the configured backoff.
func effectiveDelay(configured time.Duration, err error) time.Duration {
	if server := retryAfterFromError(err); server > configured {
		return server
	}
	return configured
}
