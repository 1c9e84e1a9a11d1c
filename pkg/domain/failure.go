package domain

import (
	"errors"
	"fmt"
)

// FailureClass separates expected business conditions from technical faults.
// The two classes cross every activity and saga boundary and drive retry and
// compensation decisions.
type FailureClass int

const (
	// FailureDomain is an expected business condition (not found, conflict,
	// permission denied). Never retried; always surfaced as a Result error code.
	FailureDomain FailureClass = iota

	// FailureInfra is an unexpected technical error (network, serialization).
	// Retried per the activity policy; re-surfaced to the caller once retries
	// exhaust and compensations have drained.
	FailureInfra
)

// Failure is the structured error activities raise instead of exception types.
// The Tag is a stable, machine-readable identifier the taxonomy maps to a
// flow-facing error code.
type Failure struct {
	Class   FailureClass
	Tag     string
	Message string
	Details map[string]string
	Cause   error
}

func (f *Failure) Error() string {
	if f.Cause != nil {
		return fmt.Sprintf("%s (%s): %v", f.Message, f.Tag, f.Cause)
	}
	return fmt.Sprintf("%s (%s)", f.Message, f.Tag)
}

func (f *Failure) Unwrap() error {
	return f.Cause
}

// DomainFailure builds an expected business failure.
func DomainFailure(tag, message string, details map[string]string) *Failure {
	return &Failure{
		Class:   FailureDomain,
		Tag:     tag,
		Message: message,
		Details: details,
	}
}

// InfraFailure builds an unexpected technical failure wrapping its cause.
func InfraFailure(tag, message string, details map[string]string, cause error) *Failure {
	return &Failure{
		Class:   FailureInfra,
		Tag:     tag,
		Message: message,
		Details: details,
		Cause:   cause,
	}
}

// AsFailure extracts a *Failure from an error chain.
func AsFailure(err error) (*Failure, bool) {
	var f *Failure
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}

// IsDomainFailure reports whether err carries an expected business failure.
// Domain failures halt forward progress without retries.
func IsDomainFailure(err error) bool {
	f, ok := AsFailure(err)
	return ok && f.Class == FailureDomain
}
