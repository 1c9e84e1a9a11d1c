package domain

import "errors"

// ErrRunNotFound is returned when a flow run ID cannot be found in the history store.
var ErrRunNotFound = errors.New("flow run not found")

// ErrNotFound is returned by directory and repository adapters when a record
// does not exist.
var ErrNotFound = errors.New("record not found")

// ErrConflict is returned by adapters when a uniqueness constraint is violated.
var ErrConflict = errors.New("record already exists")

// ErrPermissionDenied is returned by adapters when the caller lacks the
// privileges for an operation.
var ErrPermissionDenied = errors.New("permission denied")
