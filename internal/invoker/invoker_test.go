package invoker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/identropy/accord/internal/logging"
	"github.com/identropy/accord/pkg/domain"
	"github.com/identropy/accord/pkg/ports"
)

func noSleep() (Option, *[]time.Duration) {
	var slept []time.Duration
	return withSleep(func(ctx context.Context, d time.Duration) error {
		slept = append(slept, d)
		return nil
	}), &slept
}

func TestInvoke_RetriesInfraFailures(t *testing.T) {
	sleepOpt, slept := noSleep()
	inv := New(ports.RetryPolicy{
		MaxAttempts:    3,
		InitialBackoff: time.Second,
		MaxBackoff:     10 * time.Second,
		BackoffFactor:  2.0,
	}, WithLogger(logging.NewNop()), sleepOpt)

	attempts := 0
	err := inv.Invoke(context.Background(), "flaky", func(ctx context.Context) error {
		attempts++
		if attempts < 3 {
			return domain.InfraFailure("DatabaseCreateFailed", "insert failed", nil, errors.New("timeout"))
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if attempts != 3 {
		t.Errorf("expected 3 attempts, got %d", attempts)
	}

	// Exponential backoff: 1s then 2s.
	want := []time.Duration{time.Second, 2 * time.Second}
	if len(*slept) != len(want) {
		t.Fatalf("expected %d sleeps, got %v", len(want), *slept)
	}
	for i := range want {
		if (*slept)[i] != want[i] {
			t.Errorf("sleep %d: expected %v, got %v", i, want[i], (*slept)[i])
		}
	}
}

func TestInvoke_BackoffIsCapped(t *testing.T) {
	sleepOpt, slept := noSleep()
	inv := New(ports.RetryPolicy{
		MaxAttempts:    5,
		InitialBackoff: 4 * time.Second,
		MaxBackoff:     10 * time.Second,
		BackoffFactor:  2.0,
	}, WithLogger(logging.NewNop()), sleepOpt)

	infra := domain.InfraFailure("DirectoryCreateFailed", "down", nil, errors.New("conn refused"))
	err := inv.Invoke(context.Background(), "down", func(ctx context.Context) error {
		return infra
	})
	if err == nil {
		t.Fatal("expected exhaustion error")
	}

	want := []time.Duration{4 * time.Second, 8 * time.Second, 10 * time.Second, 10 * time.Second}
	if len(*slept) != len(want) {
		t.Fatalf("expected %d sleeps, got %v", len(want), *slept)
	}
	for i := range want {
		if (*slept)[i] != want[i] {
			t.Errorf("sleep %d: expected %v, got %v", i, want[i], (*slept)[i])
		}
	}

	// The tagged failure survives the exhaustion wrapper.
	f, ok := domain.AsFailure(err)
	if !ok || f.Tag != "DirectoryCreateFailed" {
		t.Errorf("failure tag lost through exhaustion: %v", err)
	}
}

func TestInvoke_DomainFailuresAreNotRetried(t *testing.T) {
	sleepOpt, slept := noSleep()
	inv := New(ports.RetryPolicy{MaxAttempts: 5}, WithLogger(logging.NewNop()), sleepOpt)

	attempts := 0
	err := inv.Invoke(context.Background(), "lookup", func(ctx context.Context) error {
		attempts++
		return domain.DomainFailure("UserNotFound", "no such user", nil)
	})

	if attempts != 1 {
		t.Errorf("domain failure retried: %d attempts", attempts)
	}
	if len(*slept) != 0 {
		t.Errorf("unexpected backoff sleeps: %v", *slept)
	}
	if !domain.IsDomainFailure(err) {
		t.Errorf("domain failure class lost: %v", err)
	}
}

func TestInvoke_CancelledContext(t *testing.T) {
	inv := New(ports.RetryPolicy{MaxAttempts: 3}, WithLogger(logging.NewNop()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := inv.Invoke(ctx, "never", func(ctx context.Context) error {
		t.Fatal("activity must not run on a cancelled context")
		return nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestInvoke_PlainErrorsAreRetried(t *testing.T) {
	sleepOpt, _ := noSleep()
	inv := New(ports.RetryPolicy{MaxAttempts: 2}, WithLogger(logging.NewNop()), sleepOpt)

	attempts := 0
	err := inv.Invoke(context.Background(), "plain", func(ctx context.Context) error {
		attempts++
		return errors.New("some transient thing")
	})
	if attempts != 2 {
		t.Errorf("expected 2 attempts, got %d", attempts)
	}
	if err == nil {
		t.Fatal("expected exhaustion error")
	}
}
