// Package invoker wraps activity calls with the retry and timeout policy the
// flows rely on. Only infrastructure failures are retried; domain failures are
// expected conditions and propagate immediately.
package invoker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/identropy/accord/pkg/domain"
	"github.com/identropy/accord/pkg/ports"
)

// Retrying implements ports.Invoker with bounded exponential backoff.
type Retrying struct {
	policy ports.RetryPolicy
	logger *slog.Logger
	sleep  func(ctx context.Context, d time.Duration) error
}

// Option configures a Retrying invoker.
type Option func(*Retrying)

// WithLogger sets the invoker logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Retrying) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// withSleep overrides the backoff sleeper in tests.
func withSleep(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(r *Retrying) {
		r.sleep = sleep
	}
}

// New creates an invoker under the given policy. Zero policy fields fall back
// to the defaults.
func New(policy ports.RetryPolicy, opts ...Option) *Retrying {
	defaults := ports.DefaultRetryPolicy()
	if policy.MaxAttempts <= 0 {
		policy.MaxAttempts = defaults.MaxAttempts
	}
	if policy.InitialBackoff <= 0 {
		policy.InitialBackoff = defaults.InitialBackoff
	}
	if policy.MaxBackoff <= 0 {
		policy.MaxBackoff = defaults.MaxBackoff
	}
	if policy.BackoffFactor <= 1 {
		policy.BackoffFactor = defaults.BackoffFactor
	}
	if policy.Timeout <= 0 {
		policy.Timeout = defaults.Timeout
	}

	r := &Retrying{
		policy: policy,
		logger: slog.Default(),
		sleep:  sleepContext,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Invoke runs the activity, retrying infrastructure failures until the policy
// is exhausted. Each attempt gets its own timeout.
func (r *Retrying) Invoke(ctx context.Context, name string, fn func(ctx context.Context) error) error {
	backoff := r.policy.InitialBackoff
	var lastErr error

	for attempt := 1; attempt <= r.policy.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("activity %s: %w", name, err)
		}

		lastErr = r.attempt(ctx, fn)
		if lastErr == nil {
			return nil
		}

		if domain.IsDomainFailure(lastErr) {
			// Expected business condition: surface at once.
			return lastErr
		}

		if attempt == r.policy.MaxAttempts {
			break
		}

		r.logger.WarnContext(ctx, "activity failed, retrying",
			"activity", name, "attempt", attempt, "backoff", backoff, "err", lastErr)

		if err := r.sleep(ctx, backoff); err != nil {
			return fmt.Errorf("activity %s: %w", name, err)
		}
		backoff = time.Duration(float64(backoff) * r.policy.BackoffFactor)
		if backoff > r.policy.MaxBackoff {
			backoff = r.policy.MaxBackoff
		}
	}

	return fmt.Errorf("activity %s: retries exhausted after %d attempts: %w",
		name, r.policy.MaxAttempts, lastErr)
}

func (r *Retrying) attempt(ctx context.Context, fn func(ctx context.Context) error) error {
	attemptCtx, cancel := context.WithTimeout(ctx, r.policy.Timeout)
	defer cancel()
	return fn(attemptCtx)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
