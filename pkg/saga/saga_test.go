package saga_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/identropy/accord/internal/logging"
	"github.com/identropy/accord/pkg/saga"
)

func TestSaga_CompensatesInReverseOrder(t *testing.T) {
	// Steps 1..3 succeed, step 4 fails: compensations must run 3, 2, 1 and
	// nothing may run for step 4 or beyond.
	var order []string

	steps := []saga.Step{}
	for i := 1; i <= 3; i++ {
		name := fmt.Sprintf("step-%d", i)
		steps = append(steps, saga.Step{
			Name:    name,
			Execute: func(ctx context.Context) error { return nil },
			Compensate: func(ctx context.Context) error {
				order = append(order, "undo-"+name)
				return nil
			},
		})
	}
	steps = append(steps, saga.Step{
		Name:    "step-4",
		Execute: func(ctx context.Context) error { return errors.New("late failure") },
		Compensate: func(ctx context.Context) error {
			order = append(order, "undo-step-4")
			return nil
		},
	})
	steps = append(steps, saga.Step{
		Name: "step-5",
		Execute: func(ctx context.Context) error {
			t.Fatal("step after failure must not execute")
			return nil
		},
	})

	err := saga.Run(context.Background(), "test-flow", steps, saga.WithLogger(logging.NewNop()))
	if err == nil {
		t.Fatal("expected error from failing step")
	}

	want := []string{"undo-step-3", "undo-step-2", "undo-step-1"}
	if len(order) != len(want) {
		t.Fatalf("expected %d compensations, got %v", len(want), order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("compensation %d: expected %s, got %s", i, want[i], order[i])
		}
	}
}

func TestSaga_DrainSurvivesCompensationFailure(t *testing.T) {
	var order []string
	s := saga.New("resilience", saga.WithLogger(logging.NewNop()))
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		name := fmt.Sprintf("step-%d", i)
		if err := s.Step(ctx, name, func(ctx context.Context) error { return nil }); err != nil {
			t.Fatalf("step %s: %v", name, err)
		}
	}
	s.AddCompensation("step-1", func(ctx context.Context) error {
		order = append(order, "undo-1")
		return nil
	})
	s.AddCompensation("step-2", func(ctx context.Context) error {
		order = append(order, "undo-2")
		return errors.New("compensation blew up")
	})
	s.AddCompensation("step-3", func(ctx context.Context) error {
		order = append(order, "undo-3")
		return nil
	})

	s.Compensate(ctx)

	want := []string{"undo-3", "undo-2", "undo-1"}
	if len(order) != len(want) {
		t.Fatalf("drain aborted early: %v", order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("position %d: expected %s, got %s", i, want[i], order[i])
		}
	}
	if s.Status() != saga.StatusCompensated {
		t.Errorf("expected compensated status, got %s", s.Status())
	}
}

func TestSaga_StatusTransitions(t *testing.T) {
	s := saga.New("lifecycle", saga.WithLogger(logging.NewNop()))
	if s.Status() != saga.StatusNotStarted {
		t.Fatalf("expected not_started, got %s", s.Status())
	}

	ctx := context.Background()
	if err := s.Step(ctx, "one", func(ctx context.Context) error { return nil }); err != nil {
		t.Fatal(err)
	}
	if s.Status() != saga.StatusRunning {
		t.Fatalf("expected running, got %s", s.Status())
	}

	s.Succeed()
	if s.Status() != saga.StatusSucceeded {
		t.Fatalf("expected succeeded, got %s", s.Status())
	}

	// Steps after a terminal status are rejected.
	if err := s.Step(ctx, "two", func(ctx context.Context) error { return nil }); err == nil {
		t.Fatal("expected error stepping after terminal status")
	}
}

func TestSaga_CompensateIsIdempotent(t *testing.T) {
	runs := 0
	s := saga.New("idempotent", saga.WithLogger(logging.NewNop()))
	ctx := context.Background()

	_ = s.Step(ctx, "one", func(ctx context.Context) error { return nil })
	s.AddCompensation("one", func(ctx context.Context) error {
		runs++
		return nil
	})

	s.Compensate(ctx)
	s.Compensate(ctx)
	if runs != 1 {
		t.Fatalf("expected single compensation run, got %d", runs)
	}
}

func TestSaga_CancelledContextStillDrains(t *testing.T) {
	var undone bool
	s := saga.New("cancel", saga.WithLogger(logging.NewNop()))

	ctx, cancel := context.WithCancel(context.Background())
	if err := s.Step(ctx, "one", func(ctx context.Context) error { return nil }); err != nil {
		t.Fatal(err)
	}
	s.AddCompensation("one", func(ctx context.Context) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		undone = true
		return nil
	})

	cancel()

	// The next step observes the cancellation.
	err := s.Step(ctx, "two", func(ctx context.Context) error { return nil })
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}

	s.Compensate(ctx)
	if !undone {
		t.Fatal("compensation must run despite cancelled context")
	}
	if s.Status() != saga.StatusCompensated {
		t.Fatalf("expected compensated, got %s", s.Status())
	}
}

func TestRun_SuccessRegistersNoUnwind(t *testing.T) {
	var undone bool
	err := saga.Run(context.Background(), "happy", []saga.Step{
		{
			Name:       "only",
			Execute:    func(ctx context.Context) error { return nil },
			Compensate: func(ctx context.Context) error { undone = true; return nil },
		},
	}, saga.WithLogger(logging.NewNop()))
	if err != nil {
		t.Fatal(err)
	}
	if undone {
		t.Fatal("no compensation should run on success")
	}
}
