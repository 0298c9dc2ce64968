package domain

import "fmt"

// ValidationError reports a violated precondition: a rejection without a
// reason, a malformed query spec, or an incomplete creation payload. It is
// surfaced to the caller synchronously and never retried.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Reason)
}

// NewValidationError builds a ValidationError for a single field.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// NotFoundError reports a mutation targeting a driver id absent from the
// current snapshot, typically a stale id after an external deletion. The
// caller is expected to refresh before retrying.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("driver %q not found in snapshot", e.ID)
}
