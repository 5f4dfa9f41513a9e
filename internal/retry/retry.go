// Package retry provides an explicit retry policy for operations against
// flaky external services. Retries are synchronous; no concurrent attempts
// are ever in flight.
package retry

import (
	"context"
	"errors"
	"time"

	"github.com/dvloznov/budget-pilot/internal/domain"
)

// BackoffFunc returns the delay before retry attempt n (n starts at 1 for
// the first retry).
type BackoffFunc func(attempt int) time.Duration

// Exponential doubles the base delay on every retry: base, 2*base, 4*base...
func Exponential(base time.Duration) BackoffFunc {
	return func(attempt int) time.Duration {
		return base << (attempt - 1)
	}
}

// NoBackoff retries immediately. Intended for tests.
func NoBackoff() BackoffFunc {
	return func(int) time.Duration { return 0 }
}

// Do runs op until it succeeds or the retry budget is spent. maxRetries is
// the number of retries after the initial attempt, so op runs at most
// maxRetries+1 times. Attempts returned counts every execution of op.
//
// A DataError stops retrying immediately: bad input does not get better by
// asking again.
func Do(ctx context.Context, maxRetries int, backoff BackoffFunc, op func(ctx context.Context) error) (attempts int, err error) {
	for attempts = 1; ; attempts++ {
		err = op(ctx)
		if err == nil {
			return attempts, nil
		}

		var de *domain.DataError
		if errors.As(err, &de) {
			return attempts, err
		}
		if attempts > maxRetries {
			return attempts, err
		}

		select {
		case <-time.After(backoff(attempts)):
		case <-ctx.Done():
			return attempts, ctx.Err()
		}
	}
}
