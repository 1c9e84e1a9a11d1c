// Package flows defines the identity-lifecycle orchestrations. Each flow
// validates its input before constructing a saga (validation needs no
// reversal), then executes its steps in order, registering a compensation
// after each side-effecting step succeeds. Tagged failures compensate and
// surface as Result error codes; anything else compensates and re-raises so
// the caller's retry machinery owns the whole execution.
package flows

import (
	"context"
	"log/slog"

	"github.com/identropy/accord/internal/activities"
	"github.com/identropy/accord/pkg/domain"
	"github.com/identropy/accord/pkg/saga"
	"github.com/identropy/accord/pkg/taxonomy"
)

// Deps carries the collaborators every flow needs.
type Deps struct {
	Directory *activities.Directory
	Database  *activities.Database
	Logger    *slog.Logger
	Hooks     domain.LifecycleHooks

	// ClientID and DefaultRole configure the client-scoped role granted to
	// every new account.
	ClientID    string
	DefaultRole string
}

func (d Deps) newSaga(name string) *saga.Saga {
	return saga.New(name, saga.WithLogger(d.Logger), saga.WithHooks(d.Hooks))
}

// conclude drains the saga and converts the step error into the flow outcome:
// tagged failures become Result error codes via the taxonomy, anything else
// stays an error for the caller to handle.
func conclude[T any](ctx context.Context, s *saga.Saga, err error) (domain.Result[T], error) {
	s.Compensate(ctx)
	if f, ok := domain.AsFailure(err); ok {
		mapped := taxonomy.FromFailure(f)
		return domain.Err[T](mapped.Code, mapped.Details), nil
	}
	return domain.Result[T]{}, err
}

// reject returns a validation failure reached before any saga was built.
func reject[T any](err error) (domain.Result[T], error) {
	if f, ok := domain.AsFailure(err); ok {
		mapped := taxonomy.FromFailure(f)
		return domain.Err[T](mapped.Code, mapped.Details), nil
	}
	return domain.Result[T]{}, err
}
