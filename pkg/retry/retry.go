// Package retry runs an operation with capped exponential backoff.
package retry

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"
)

// Policy controls how many times and how fast an operation is retried.
type Policy struct {
	Attempts  int           // total attempts including the first; values < 1 mean 1
	BaseDelay time.Duration // delay before the second attempt
	MaxDelay  time.Duration // upper bound for any single delay
	Jitter    bool          // add up to 25% random extra delay
}

// Startup is the policy used while waiting for dependencies at boot.
func Startup(attempts int) Policy {
	return Policy{
		Attempts:  attempts,
		BaseDelay: 200 * time.Millisecond,
		MaxDelay:  5 * time.Second,
		Jitter:    true,
	}
}

type permanentError struct{ err error }

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent marks err so that Do returns it without further attempts.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// IsPermanent reports whether err was marked with Permanent.
func IsPermanent(err error) bool {
	var pe *permanentError
	return errors.As(err, &pe)
}

// Do calls fn until it succeeds, returns a permanent error, the attempts are
// exhausted, or ctx is done. The last error from fn is wrapped in the result.
func Do(ctx context.Context, p Policy, fn func(ctx context.Context) error) error {
	attempts := max(p.Attempts, 1)
	delay := p.BaseDelay
	if delay <= 0 {
		delay = 100 * time.Millisecond
	}
	maxDelay := max(p.MaxDelay, delay)

	var lastErr error
	for attempt := 1; ; attempt++ {
		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}
		if IsPermanent(lastErr) {
			return lastErr
		}
		if attempt >= attempts {
			break
		}

		wait := delay
		if p.Jitter {
			wait += time.Duration(rand.Int64N(int64(delay)/4 + 1))
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("retry: cancelled after %d attempts: %w (last error: %v)", attempt, ctx.Err(), lastErr)
		case <-timer.C:
		}

		delay = min(delay*2, maxDelay)
	}

	return fmt.Errorf("retry: %d attempts failed: %w", attempts, lastErr)
}
