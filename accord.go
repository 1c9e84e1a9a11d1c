package accord

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/identropy/accord/internal/activities"
	"github.com/identropy/accord/internal/flows"
	"github.com/identropy/accord/internal/invoker"
	"github.com/identropy/accord/pkg/adapters/memory"
	"github.com/identropy/accord/pkg/codec"
	"github.com/identropy/accord/pkg/domain"
	"github.com/identropy/accord/pkg/history/middleware"
	"github.com/identropy/accord/pkg/ports"
)

// Engine is the high-level entry point. It wires the directory and repository
// adapters into the lifecycle flows, records every run's input and outcome in
// the history store, and fires lifecycle hooks for observability.
type Engine struct {
	deps     flows.Deps
	history  ports.HistoryStore
	logger   *slog.Logger
	hooks    domain.LifecycleHooks
	policy   ports.RetryPolicy
	clientID string
	role     string

	codec codec.Codec
}

// Option configures the Engine.
type Option func(*Engine)

// WithLogger sets the structured logger for the engine and everything under it.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability hooks for saga steps,
// compensations, and flow outcomes.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithHistoryStore sets the run-history store. Defaults to an in-memory store.
func WithHistoryStore(store ports.HistoryStore) Option {
	return func(e *Engine) {
		e.history = store
	}
}

// WithCodec encrypts everything written to the history store through c.
func WithCodec(c codec.Codec) Option {
	return func(e *Engine) {
		e.codec = c
	}
}

// WithRetryPolicy tunes activity retries. Zero fields fall back to defaults.
func WithRetryPolicy(policy ports.RetryPolicy) Option {
	return func(e *Engine) {
		e.policy = policy
	}
}

// WithClientRole sets the client-scoped role granted to every new user.
func WithClientRole(clientID, role string) Option {
	return func(e *Engine) {
		e.clientID = clientID
		e.role = role
	}
}

// New wires an Engine over the given directory and repository adapters.
func New(dir ports.Directory, repo ports.Repository, opts ...Option) *Engine {
	e := &Engine{
		logger:   slog.Default(),
		clientID: "account-console",
		role:     "user",
	}
	for _, opt := range opts {
		opt(e)
	}

	if e.history == nil {
		e.history = memory.NewStore()
	}
	if e.codec != nil {
		e.history = middleware.Encryption(e.codec)(e.history)
	}

	inv := invoker.New(e.policy, invoker.WithLogger(e.logger))
	e.deps = flows.Deps{
		Directory:   activities.NewDirectory(dir, inv, e.logger),
		Database:    activities.NewDatabase(repo, inv, e.logger),
		Logger:      e.logger,
		Hooks:       e.hooks,
		ClientID:    e.clientID,
		DefaultRole: e.role,
	}
	return e
}

// runRecord is the history entry written for every flow execution.
type runRecord struct {
	Flow      string            `json:"flow"`
	Input     json.RawMessage   `json:"input,omitempty"`
	ErrorCode string            `json:"errorCode,omitempty"`
	Details   map[string]string `json:"details,omitempty"`
	StartedAt time.Time         `json:"startedAt"`
	EndedAt   time.Time         `json:"endedAt,omitempty"`
}

// CreateUser provisions a user across the directory and the database. The
// run ID identifies the recorded history entry.
func (e *Engine) CreateUser(ctx context.Context, req domain.CreateUserRequest) (domain.Result[string], error) {
	return run(ctx, e, "user.create", req, func(ctx context.Context) (domain.Result[string], error) {
		return flows.Create(ctx, e.deps, req)
	})
}

// UpdateUser applies a partial update to the user.
func (e *Engine) UpdateUser(ctx context.Context, id string, req domain.UpdateUserRequest) (domain.Result[domain.User], error) {
	input := struct {
		ID string `json:"id"`
		domain.UpdateUserRequest
	}{ID: id, UpdateUserRequest: req}
	return run(ctx, e, "user.update", input, func(ctx context.Context) (domain.Result[domain.User], error) {
		return flows.Update(ctx, e.deps, id, req)
	})
}

// DeleteUser disables the directory account and soft-deletes the user row.
func (e *Engine) DeleteUser(ctx context.Context, id string) (domain.Result[struct{}], error) {
	input := struct {
		ID string `json:"id"`
	}{ID: id}
	return run(ctx, e, "user.delete", input, func(ctx context.Context) (domain.Result[struct{}], error) {
		return flows.Delete(ctx, e.deps, id)
	})
}

// GetUser returns the user and their profile.
func (e *Engine) GetUser(ctx context.Context, id string) (domain.Result[domain.UserWithProfile], error) {
	return flows.Get(ctx, e.deps, id)
}

// Runs lists the recorded run IDs.
func (e *Engine) Runs(ctx context.Context) ([]string, error) {
	return e.history.List(ctx)
}

// run executes a flow, records its history entry under a fresh run ID, and
// fires the flow-end hook. History failures are logged, never fatal: losing
// an audit record must not fail the user operation.
func run[T any](ctx context.Context, e *Engine, flow string, input any, fn func(ctx context.Context) (domain.Result[T], error)) (domain.Result[T], error) {
	runID := uuid.NewString()
	rec := runRecord{Flow: flow, StartedAt: time.Now()}
	if data, err := json.Marshal(input); err == nil {
		rec.Input = data
	}
	e.saveRecord(ctx, runID, rec)

	started := time.Now()
	res, err := fn(ctx)

	rec.EndedAt = time.Now()
	rec.ErrorCode = res.ErrorCode
	rec.Details = res.ErrorDetails
	e.saveRecord(ctx, runID, rec)

	if e.hooks.OnFlowEnd != nil {
		e.hooks.OnFlowEnd(ctx, &domain.FlowEvent{
			Flow:      flow,
			ErrorCode: res.ErrorCode,
			Err:       err,
			Elapsed:   time.Since(started),
		})
	}
	return res, err
}

func (e *Engine) saveRecord(ctx context.Context, runID string, rec runRecord) {
	data, err := json.Marshal(rec)
	if err != nil {
		e.logger.ErrorContext(ctx, "failed to encode run record", "run_id", runID, "err", err)
		return
	}
	if err := e.history.Save(context.WithoutCancel(ctx), runID, codec.NewJSON(data)); err != nil {
		e.logger.ErrorContext(ctx, "failed to record run history", "run_id", runID, "err", err)
	}
}
