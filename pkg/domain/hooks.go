package domain

import (
	"context"
	"time"
)

// StepEvent describes one forward saga step.
type StepEvent struct {
	Flow    string
	Step    string
	Err     error
	Elapsed time.Duration
}

// CompensationEvent describes one compensation run during unwind.
type CompensationEvent struct {
	Flow string
	Step string
	Err  error
}

// FlowEvent describes the terminal outcome of a flow execution.
type FlowEvent struct {
	Flow      string
	ErrorCode string
	Err       error
	Elapsed   time.Duration
}

// LifecycleHooks receive saga lifecycle events for logging, metrics, and
// auditing. All fields are optional; nil hooks are skipped.
type LifecycleHooks struct {
	OnStepStart    func(ctx context.Context, e *StepEvent)
	OnStepEnd      func(ctx context.Context, e *StepEvent)
	OnCompensation func(ctx context.Context, e *CompensationEvent)
	OnFlowEnd      func(ctx context.Context, e *FlowEvent)
}

// Merge combines two hook sets, invoking the receiver's hooks first.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnStepStart:    chain(h.OnStepStart, other.OnStepStart),
		OnStepEnd:      chain(h.OnStepEnd, other.OnStepEnd),
		OnCompensation: chain(h.OnCompensation, other.OnCompensation),
		OnFlowEnd:      chain(h.OnFlowEnd, other.OnFlowEnd),
	}
}

func chain[E any](first, second func(ctx context.Context, e *E)) func(ctx context.Context, e *E) {
	if first == nil {
		return second
	}
	if second == nil {
		return first
	}
	return func(ctx context.Context, e *E) {
		first(ctx, e)
		second(ctx, e)
	}
}
