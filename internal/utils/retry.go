package utils

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"
)

// Backoff describes how a failing call is retried
type Backoff struct {
	Attempts  int           // total calls, at least one
	Base      time.Duration // first wait, doubled after every failure
	MaxJitter time.Duration
	MaxWait   time.Duration    // an upstream hint above this gives up, zero means no limit
	Retryable func(error) bool // nil retries every error
}

// Retry calls fn until it succeeds, the error is not retryable,
// the attempts run out or the context is done.
// A gRPC RetryInfo hint replaces the computed wait.
func Retry[T any](ctx context.Context, b Backoff, fn func(context.Context) (T, error)) (T, error) {

	var zero T
	attempts := max(b.Attempts, 1)

	for i := range attempts {

		data, err := fn(ctx)
		if err == nil {
			return data, nil
		}

		if b.Retryable != nil && !b.Retryable(err) {
			return zero, err
		}

		if i+1 == attempts {
			return zero, fmt.Errorf("gave up after %d attempts; %w", attempts, err)
		}

		wait, werr := b.wait(i, err)
		if werr != nil {
			return zero, werr
		}

		select {
		case <-ctx.Done():
			return zero, errors.Join(ctx.Err(), err)
		case <-time.After(wait):
		}
	}

	return zero, nil // unreachable
}

// wait computes the pause after the given failed attempt
func (b Backoff) wait(attempt int, err error) (time.Duration, error) {

	if hint, ok := RetryDelay(err); ok {
		if b.MaxWait > 0 && hint > b.MaxWait {
			return 0, fmt.Errorf("upstream asked to wait %v; %w", hint, err)
		}
		return hint, nil
	}

	wait := b.Base << attempt
	if b.MaxJitter > 0 {
		wait += rand.N(b.MaxJitter) // #nosec G404
	}

	if b.MaxWait > 0 {
		wait = min(wait, b.MaxWait)
	}

	return wait, nil
}
