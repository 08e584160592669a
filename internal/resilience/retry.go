// Package resilience retries idempotent calls to flaky collaborators such as
// the outreach log and the sent-mail history.
package resilience

import (
	"context"
	"math"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"
)

// Policy controls retries with exponential backoff and jitter. The zero
// value retries transient errors up to three attempts in total.
type Policy struct {
	// Attempts is the total number of calls, the first included. 1 disables
	// retries.
	Attempts int

	// Backoff is the delay before the first retry.
	Backoff time.Duration

	// MaxBackoff caps the delay.
	MaxBackoff time.Duration

	// Jitter spreads each delay by ±Jitter of its value.
	Jitter float64

	// Retryable overrides IsTransient.
	Retryable func(err error) bool

	// OnRetry runs before each retry sleep.
	OnRetry func(attempt int, err error)
}

// NoRetry is a Policy that calls once.
var NoRetry = Policy{Attempts: 1}

func (p Policy) withDefaults() Policy {
	if p.Attempts <= 0 {
		p.Attempts = 3
	}
	if p.Backoff <= 0 {
		p.Backoff = 500 * time.Millisecond
	}
	if p.MaxBackoff <= 0 {
		p.MaxBackoff = 10 * time.Second
	}
	if p.Jitter < 0 {
		p.Jitter = 0
	}
	if p.Retryable == nil {
		p.Retryable = IsTransient
	}
	return p
}

// Do calls fn until it succeeds, returns a non-retryable error, the
// attempts run out or ctx is done. The last error is returned.
func Do(ctx context.Context, p Policy, fn func(ctx context.Context) error) error {
	_, err := DoVal(ctx, p, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
	return err
}

// DoVal is Do for calls that return a value. The zero value is returned
// on failure.
func DoVal[T any](ctx context.Context, p Policy, fn func(ctx context.Context) (T, error)) (T, error) {
	p = p.withDefaults()

	var zero T
	for attempt := 0; ; attempt++ {
		val, err := fn(ctx)
		if err == nil {
			return val, nil
		}
		if ctx.Err() != nil || !p.Retryable(err) || attempt >= p.Attempts-1 {
			return zero, err
		}

		if p.OnRetry != nil {
			p.OnRetry(attempt+1, err)
		}

		timer := time.NewTimer(p.delay(attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, err
		case <-timer.C:
		}
	}
}

func (p Policy) delay(attempt int) time.Duration {
	d := float64(p.Backoff) * math.Pow(2, float64(attempt))
	if d > float64(p.MaxBackoff) {
		d = float64(p.MaxBackoff)
	}
	if p.Jitter > 0 {
		d += (rand.Float64()*2 - 1) * d * p.Jitter
	}
	if d < 0 {
		d = 0
	}
	return time.Duration(d)
}

// LogRetry returns an OnRetry callback that logs each retry at warn level.
func LogRetry(operation string, fields ...zap.Field) func(int, error) {
	return func(attempt int, err error) {
		zap.L().Warn("retrying "+operation,
			append(fields, zap.Int("attempt", attempt), zap.Error(err))...,
		)
	}
}
