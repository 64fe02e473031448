package extract

import (
	"context"
	"errors"
	"math/rand"
	"time"
)

// WithRetry invokes fn up to maxAttempts times and returns the first
// success. If every attempt fails the last error propagates. Attempts
// after the first wait base*2^n plus up to 50% jitter, so a rate-limited
// endpoint is not hammered in a tight loop. A base of zero disables the
// delay. A terminal *Error ends the loop early: retrying a verdict about
// the input itself is wasted quota.
func WithRetry[T any](ctx context.Context, maxAttempts int, base time.Duration, fn func() (T, error)) (T, error) {
	var zero T
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 && base > 0 {
			delay := base << (attempt - 1)
			delay += time.Duration(rand.Int63n(int64(delay)/2 + 1))
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return zero, ctx.Err()
			}
		}

		v, err := fn()
		if err == nil {
			return v, nil
		}
		lastErr = err

		var xerr *Error
		if errors.As(err, &xerr) && xerr.Terminal() {
			return zero, lastErr
		}
		if ctx.Err() != nil {
			return zero, lastErr
		}
	}
	return zero, lastErr
}
