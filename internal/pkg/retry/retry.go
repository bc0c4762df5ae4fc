// Package retry implements an exponential-backoff retry wrapper for fallible
// operations.
//
// The policy retries every error until the attempt budget is exhausted; it
// deliberately does not classify errors as retryable or fatal, so a
// permanently-failing call burns the full backoff budget before surfacing.
package retry

import (
	"context"
	"math"
	"math/rand/v2"
	"time"

	"github.com/rs/zerolog"
)

// Policy configures backoff behaviour. A Policy is immutable and safe to
// share; every Do call tracks its own attempt counter.
type Policy struct {
	// MaxRetries is the number of retries after the first attempt, so an
	// always-failing operation runs MaxRetries+1 times in total.
	MaxRetries int
	// Factor is the exponential growth factor between delays.
	Factor float64
	// MinDelay is the delay before the first retry.
	MinDelay time.Duration
	// MaxDelay caps the computed delay.
	MaxDelay time.Duration
	// Jitter randomizes each delay by a factor in [1, 2) to avoid synchronized
	// retry storms.
	Jitter bool
}

// DefaultPolicy mirrors the settings used for the upstream integrations:
// 3 retries, doubling from 1s, capped at 5s, randomized.
func DefaultPolicy() Policy {
	return Policy{
		MaxRetries: 3,
		Factor:     2,
		MinDelay:   time.Second,
		MaxDelay:   5 * time.Second,
		Jitter:     true,
	}
}

// Do runs op until it succeeds or the attempt budget is exhausted, sleeping
// the backoff delay between attempts. Waits are timers that abort when ctx is
// cancelled; a running op itself is never interrupted. Every failed attempt
// is logged with its attempt number before the retry decision. The error
// from the last attempt is returned once the budget is spent.
func Do[T any](ctx context.Context, p Policy, log zerolog.Logger, op func(ctx context.Context) (T, error)) (T, error) {
	var zero T

	for attempt := 1; ; attempt++ {
		result, err := op(ctx)
		if err == nil {
			return result, nil
		}

		log.Warn().
			Int("attempt", attempt).
			Str("error", err.Error()).
			Msg("attempt failed")

		if attempt > p.MaxRetries {
			return zero, err
		}

		if waitErr := sleep(ctx, p.delay(attempt)); waitErr != nil {
			return zero, waitErr
		}
	}
}

// delay computes min(MaxDelay, MinDelay * Factor^(attempt-1)), optionally
// spread by the jitter factor.
func (p Policy) delay(attempt int) time.Duration {
	d := float64(p.MinDelay) * math.Pow(p.Factor, float64(attempt-1))
	if p.Jitter {
		d *= 1 + rand.Float64()
	}
	if max := float64(p.MaxDelay); p.MaxDelay > 0 && d > max {
		d = max
	}
	return time.Duration(d)
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
