// Package saga implements a compensation-based orchestrator for multi-system
// mutations. Steps run strictly in order; each successful step may register a
// compensation, and on failure the registered compensations drain in reverse
// order before the failure is surfaced.
package saga

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/identropy/accord/pkg/domain"
)

// Status is the lifecycle of a single saga execution.
type Status string

const (
	StatusNotStarted   Status = "not_started"
	StatusRunning      Status = "running"
	StatusSucceeded    Status = "succeeded"
	StatusCompensating Status = "compensating"
	StatusCompensated  Status = "compensated"
)

// Step is a named unit of forward work with an optional compensation.
type Step struct {
	Name       string
	Execute    func(ctx context.Context) error
	Compensate func(ctx context.Context) error
}

type compensation struct {
	step string
	fn   func(ctx context.Context) error
}

// Saga owns the compensation stack for exactly one flow execution. It is not
// safe for concurrent use; each execution constructs its own instance.
type Saga struct {
	name   string
	logger *slog.Logger
	hooks  domain.LifecycleHooks
	status Status
	stack  []compensation
}

// Option configures a Saga.
type Option func(*Saga)

// WithLogger sets the logger used for step and compensation events.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Saga) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithHooks registers lifecycle hooks.
func WithHooks(hooks domain.LifecycleHooks) Option {
	return func(s *Saga) {
		s.hooks = hooks
	}
}

// New creates a saga for one named flow execution.
func New(name string, opts ...Option) *Saga {
	s := &Saga{
		name:   name,
		logger: slog.Default(),
		status: StatusNotStarted,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Status returns the current lifecycle state.
func (s *Saga) Status() Status {
	return s.status
}

// Step executes one forward step. A context error is treated like any other
// infrastructure failure: the caller is expected to compensate before
// returning it.
func (s *Saga) Step(ctx context.Context, name string, execute func(ctx context.Context) error) error {
	switch s.status {
	case StatusNotStarted:
		s.status = StatusRunning
	case StatusRunning:
	default:
		return fmt.Errorf("saga %s: step %s after terminal status %s", s.name, name, s.status)
	}

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("step %s: %w", name, err)
	}

	event := &domain.StepEvent{Flow: s.name, Step: name}
	s.fireStepStart(ctx, event)

	started := time.Now()
	err := execute(ctx)
	event.Elapsed = time.Since(started)
	event.Err = err
	s.fireStepEnd(ctx, event)

	if err != nil {
		s.logger.ErrorContext(ctx, "saga step failed",
			"flow", s.name, "step", name, "err", err)
		return fmt.Errorf("step %s: %w", name, err)
	}
	return nil
}

// AddCompensation pushes a reversal action for the most recent successful
// step. Compensations run in reverse registration order during unwind.
func (s *Saga) AddCompensation(step string, fn func(ctx context.Context) error) {
	s.stack = append(s.stack, compensation{step: step, fn: fn})
}

// Succeed marks the execution as completed without compensation.
func (s *Saga) Succeed() {
	if s.status == StatusRunning || s.status == StatusNotStarted {
		s.status = StatusSucceeded
	}
}

// Compensate drains the compensation stack in reverse order. A compensation
// that fails is logged and skipped; the drain always runs to completion so
// that later registrations cannot block earlier ones. Compensations run even
// when ctx is already cancelled, so the drain uses a context detached from the
// caller's deadline but preserving its values.
func (s *Saga) Compensate(ctx context.Context) {
	if s.status == StatusCompensating || s.status == StatusCompensated {
		return
	}
	s.status = StatusCompensating
	drainCtx := context.WithoutCancel(ctx)

	for i := len(s.stack) - 1; i >= 0; i-- {
		comp := s.stack[i]
		s.logger.WarnContext(drainCtx, "compensating step", "flow", s.name, "step", comp.step)

		err := comp.fn(drainCtx)
		s.fireCompensation(drainCtx, &domain.CompensationEvent{Flow: s.name, Step: comp.step, Err: err})
		if err != nil {
			s.logger.ErrorContext(drainCtx, "compensation failed, continuing unwind",
				"flow", s.name, "step", comp.step, "err", err)
		}
	}

	s.stack = s.stack[:0]
	s.status = StatusCompensated
}

// Run executes an ordered step sequence, registering each step's compensation
// after its Execute succeeds. On any failure it compensates and returns the
// step error. It is a convenience over Step/AddCompensation for flows whose
// steps do not depend on intermediate results.
func Run(ctx context.Context, name string, steps []Step, opts ...Option) error {
	s := New(name, opts...)
	for _, step := range steps {
		if err := s.Step(ctx, step.Name, step.Execute); err != nil {
			s.Compensate(ctx)
			return err
		}
		if step.Compensate != nil {
			s.AddCompensation(step.Name, step.Compensate)
		}
	}
	s.Succeed()
	return nil
}

func (s *Saga) fireStepStart(ctx context.Context, e *domain.StepEvent) {
	if s.hooks.OnStepStart != nil {
		s.hooks.OnStepStart(ctx, e)
	}
}

func (s *Saga) fireStepEnd(ctx context.Context, e *domain.StepEvent) {
	if s.hooks.OnStepEnd != nil {
		s.hooks.OnStepEnd(ctx, e)
	}
}

func (s *Saga) fireCompensation(ctx context.Context, e *domain.CompensationEvent) {
	if s.hooks.OnCompensation != nil {
		s.hooks.OnCompensation(ctx, e)
	}
}
