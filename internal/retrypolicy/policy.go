package retrypolicy

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Outcome classifies how a retried operation finished.
type Outcome int

const (
	// Succeeded means the operation returned nil within the attempt budget.
	Succeeded Outcome = iota
	// Exhausted means every attempt failed with a retryable error.
	Exhausted
	// NonRetryable means the operation signalled a permanent failure (or the
	// context was cancelled) and retrying stopped immediately.
	NonRetryable
)

// Policy is a reusable bounded-retry policy with exponential backoff. The
// zero value retries up to DefaultMaxAttempts times waiting 2^attempt seconds
// between attempts (1s, 2s, 4s, ...), with no jitter so waits are predictable.
type Policy struct {
	MaxAttempts     int
	InitialInterval time.Duration
	Multiplier      float64

	// OnRetry, when set, is invoked with the failed attempt's error and the
	// wait before the next attempt.
	OnRetry func(err error, wait time.Duration)
}

// DefaultMaxAttempts matches the search gateway's retry budget.
const DefaultMaxAttempts = 5

// Permanent marks err as non-retryable; Do stops immediately when an
// operation returns a permanent error.
func Permanent(err error) error {
	return backoff.Permanent(err)
}

// Do runs op until it succeeds, the attempt budget is exhausted, the
// operation fails permanently, or ctx is cancelled.
func (p Policy) Do(ctx context.Context, op func() error) (Outcome, error) {
	maxAttempts := p.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = DefaultMaxAttempts
	}

	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = p.InitialInterval
	if eb.InitialInterval <= 0 {
		eb.InitialInterval = time.Second
	}
	eb.Multiplier = p.Multiplier
	if eb.Multiplier <= 0 {
		eb.Multiplier = 2
	}
	eb.RandomizationFactor = 0
	eb.MaxInterval = time.Hour
	eb.MaxElapsedTime = 0

	var permanent bool
	wrapped := func() error {
		err := op()
		if err == nil {
			return nil
		}
		var perm *backoff.PermanentError
		if errors.As(err, &perm) {
			permanent = true
		}
		return err
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(eb, uint64(maxAttempts-1)), ctx)
	err := backoff.RetryNotify(wrapped, policy, func(err error, wait time.Duration) {
		if p.OnRetry != nil {
			p.OnRetry(err, wait)
		}
	})

	switch {
	case err == nil:
		return Succeeded, nil
	case permanent:
		return NonRetryable, err
	case ctx.Err() != nil:
		return NonRetryable, err
	default:
		return Exhausted, err
	}
}
