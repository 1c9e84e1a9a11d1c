// Package taxonomy is the single place activity failure tags are translated
// into the closed, versioned set of flow-facing error codes. The saga engine
// stays tag-agnostic; callers decide HTTP-visible outcomes from these codes
// alone.
package taxonomy

import "github.com/identropy/accord/pkg/domain"

// Flow-facing error codes. This set is the stable contract consumed by the
// REST layer: 409 for conflicts, 404 for not-found, 500 for everything else.
const (
	CodeUserAlreadyExists = "UserAlreadyExists"
	CodeUserNotFound      = "UserNotFound"
	CodeRoleNotFound      = "RoleNotFound"

	CodeDirectoryPermissionDenied = "DirectoryPermissionDenied"
	CodeDirectoryCreateFailed     = "DirectoryCreateFailed"
	CodeDirectoryUpdateFailed     = "DirectoryUpdateFailed"
	CodeDirectoryDeleteFailed     = "DirectoryDeleteFailed"
	CodeDirectoryDisableFailed    = "DirectoryDisableFailed"
	CodeDirectoryGetFailed        = "DirectoryGetFailed"
	CodeDirectoryRoleFailed       = "DirectoryRoleAssignmentFailed"

	CodeDatabaseCreateFailed = "DatabaseCreateFailed"
	CodeDatabaseUpdateFailed = "DatabaseUpdateFailed"
	CodeDatabaseDeleteFailed = "DatabaseDeleteFailed"
	CodeDatabaseCheckFailed  = "DatabaseCheckFailed"
	CodeDatabaseGetFailed    = "DatabaseGetFailed"

	CodeProfileCreateFailed = "ProfileCreateFailed"
	CodeProfileUpdateFailed = "ProfileUpdateFailed"
	CodeProfileDeleteFailed = "ProfileDeleteFailed"
	CodeProfileGetFailed    = "ProfileGetFailed"

	// CodeApplicationFailure is the generic fallback for unrecognized tags.
	CodeApplicationFailure = "ApplicationFailure"
)

// DetailFailureTag is the detail key carrying the original tag when an
// unrecognized failure collapses to CodeApplicationFailure.
const DetailFailureTag = "failure-tag"

// DomainError is a mapped, caller-facing error.
type DomainError struct {
	Code    string
	Details map[string]string
}

var knownCodes = map[string]struct{}{
	CodeUserAlreadyExists:         {},
	CodeUserNotFound:              {},
	CodeRoleNotFound:              {},
	CodeDirectoryPermissionDenied: {},
	CodeDirectoryCreateFailed:     {},
	CodeDirectoryUpdateFailed:     {},
	CodeDirectoryDeleteFailed:     {},
	CodeDirectoryDisableFailed:    {},
	CodeDirectoryGetFailed:        {},
	CodeDirectoryRoleFailed:       {},
	CodeDatabaseCreateFailed:      {},
	CodeDatabaseUpdateFailed:      {},
	CodeDatabaseDeleteFailed:      {},
	CodeDatabaseCheckFailed:       {},
	CodeDatabaseGetFailed:         {},
	CodeProfileCreateFailed:       {},
	CodeProfileUpdateFailed:       {},
	CodeProfileDeleteFailed:       {},
	CodeProfileGetFailed:          {},
	CodeApplicationFailure:        {},
}

// Map translates a failure tag and its details into a DomainError. It is pure
// and total: recognized tags pass through, anything else collapses to
// CodeApplicationFailure with the original tag retained for diagnostics.
func Map(tag string, details map[string]string) DomainError {
	if _, ok := knownCodes[tag]; ok {
		return DomainError{Code: tag, Details: details}
	}

	merged := make(map[string]string, len(details)+1)
	for k, v := range details {
		merged[k] = v
	}
	if tag != "" {
		merged[DetailFailureTag] = tag
	}
	return DomainError{Code: CodeApplicationFailure, Details: merged}
}

// FromFailure maps a structured activity failure.
func FromFailure(f *domain.Failure) DomainError {
	if f == nil {
		return DomainError{Code: CodeApplicationFailure}
	}
	return Map(f.Tag, f.Details)
}

// Known reports whether code belongs to the closed set.
func Known(code string) bool {
	_, ok := knownCodes[code]
	return ok
}
