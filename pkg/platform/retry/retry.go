// Package retry runs an operation under a bounded exponential backoff policy.
package retry

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// ErrExhausted is wrapped into the returned error when every attempt failed
// with a retryable error.
var ErrExhausted = errors.New("retry attempts exhausted")

// Policy bounds a retry loop. Delays grow as BaseDelay·Multiplier^(n-1) and are
// capped by MaxDelay when it is set.
type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Multiplier  float64
	MaxDelay    time.Duration
}

// DefaultPolicy is three attempts starting at 500ms and doubling.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: 3,
		BaseDelay:   500 * time.Millisecond,
		Multiplier:  2,
	}
}

// Validate rejects policies that would never run or never wait.
func (p Policy) Validate() error {
	switch {
	case p.MaxAttempts < 1:
		return fmt.Errorf("max attempts must be at least 1, got %d", p.MaxAttempts)
	case p.BaseDelay < 0:
		return fmt.Errorf("base delay must be non-negative, got %s", p.BaseDelay)
	case p.Multiplier < 1:
		return fmt.Errorf("multiplier must be at least 1, got %g", p.Multiplier)
	case p.MaxDelay < 0:
		return fmt.Errorf("max delay must be non-negative, got %s", p.MaxDelay)
	}
	return nil
}

func (p Policy) backOff() *backoff.ExponentialBackOff {
	maxInterval := p.MaxDelay
	if maxInterval == 0 {
		maxInterval = time.Duration(math.MaxInt64)
	}
	b := &backoff.ExponentialBackOff{
		InitialInterval:     p.BaseDelay,
		RandomizationFactor: 0,
		Multiplier:          p.Multiplier,
		MaxInterval:         maxInterval,
		MaxElapsedTime:      0,
		Stop:                backoff.Stop,
		Clock:               backoff.SystemClock,
	}
	b.Reset()
	return b
}

type options struct {
	retryIf func(error) bool
	notify  func(attempt int, err error, next time.Duration)
}

// Option customizes a single Do call.
type Option func(*options)

// WithRetryIf limits retries to errors accepted by fn. Other errors are
// returned immediately.
func WithRetryIf(fn func(error) bool) Option {
	return func(o *options) {
		o.retryIf = fn
	}
}

// WithNotify is called after each failed attempt that will be retried.
func WithNotify(fn func(attempt int, err error, next time.Duration)) Option {
	return func(o *options) {
		o.notify = fn
	}
}

// Do calls fn until it succeeds, returns a non-retryable error, the policy is
// exhausted or ctx is done. attempt starts at 1.
func Do(ctx context.Context, p Policy, fn func(ctx context.Context, attempt int) error, opts ...Option) error {
	if err := p.Validate(); err != nil {
		return fmt.Errorf("invalid retry policy: %w", err)
	}
	o := options{retryIf: func(error) bool { return true }}
	for _, opt := range opts {
		opt(&o)
	}

	attempt := 0
	var lastErr error
	permanent := false

	operation := func() error {
		attempt++
		err := fn(ctx, attempt)
		if err == nil {
			return nil
		}
		lastErr = err
		if !o.retryIf(err) {
			permanent = true
			return backoff.Permanent(err)
		}
		return err
	}
	notify := func(err error, next time.Duration) {
		if o.notify != nil {
			o.notify(attempt, err, next)
		}
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(p.backOff(), uint64(p.MaxAttempts-1)), ctx)
	err := backoff.RetryNotify(operation, policy, notify)
	switch {
	case err == nil:
		return nil
	case permanent:
		return err
	case lastErr == nil:
		return err
	case ctx.Err() != nil && errors.Is(err, ctx.Err()) && !errors.Is(lastErr, ctx.Err()):
		return fmt.Errorf("retry stopped after %d attempts: %w: %w", attempt, err, lastErr)
	default:
		return fmt.Errorf("%w after %d attempts: %w", ErrExhausted, attempt, lastErr)
	}
}
