package ports

import (
	"context"
	"time"
)

// RetryPolicy bounds how an invoker retries infrastructure failures. Domain
// failures are never retried under any policy.
type RetryPolicy struct {
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	BackoffFactor  float64

	// Timeout bounds a single attempt, not the whole call.
	Timeout time.Duration
}

// DefaultRetryPolicy mirrors the activity options used by the flows: three
// attempts, exponential backoff from 1s capped at 10s, 30s per attempt.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:    3,
		InitialBackoff: time.Second,
		MaxBackoff:     10 * time.Second,
		BackoffFactor:  2.0,
		Timeout:        30 * time.Second,
	}
}

// Invoker executes a named activity under a retry policy. Activities must be
// idempotent: the invoker adds no deduplication of its own.
type Invoker interface {
	Invoke(ctx context.Context, name string, fn func(ctx context.Context) error) error
}
