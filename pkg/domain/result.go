package domain

// Result carries a flow outcome across the orchestration boundary without
// raising errors. Exactly one of Value and ErrorCode is set: a successful flow
// has a value and no error code, a failed flow has an error code (plus optional
// details) and no value.
type Result[T any] struct {
	Value        *T                `json:"value,omitempty"`
	ErrorCode    string            `json:"errorCode,omitempty"`
	ErrorDetails map[string]string `json:"errorDetails,omitempty"`
}

// OK builds a successful result.
func OK[T any](value T) Result[T] {
	return Result[T]{Value: &value}
}

// Err builds a failed result with a stable error code and optional details.
func Err[T any](code string, details map[string]string) Result[T] {
	return Result[T]{ErrorCode: code, ErrorDetails: details}
}

// IsSuccess reports whether the flow completed without a business error.
func (r Result[T]) IsSuccess() bool {
	return r.ErrorCode == ""
}

// Get returns the value and whether it is present.
func (r Result[T]) Get() (T, bool) {
	if r.Value == nil {
		var zero T
		return zero, false
	}
	return *r.Value, true
}
