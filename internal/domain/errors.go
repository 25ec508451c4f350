package domain

import "fmt"

// Error types shared by the stores, services and the HTTP layer.
// Handlers map them to status codes with errors.As; nothing below the
// HTTP layer knows about status codes.

// ErrNotFound indicates a referenced entity does not exist.
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ErrUnauthorized indicates invalid credentials or a failed role check.
type ErrUnauthorized struct {
	Message string
}

func (e *ErrUnauthorized) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "unauthorized"
}

// ErrConflict indicates a unique-constraint violation (duplicate
// username, email, organization name, ...).
type ErrConflict struct {
	Message string
}

func (e *ErrConflict) Error() string {
	return e.Message
}

// ErrValidation indicates malformed input that survived boundary
// binding, e.g. an unknown membership role.
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error on '%s': %s", e.Field, e.Message)
}
