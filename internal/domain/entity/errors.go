package entity

import (
	"errors"
	"fmt"
)

// Sentinel errors for domain layer operations.
var (
	// ErrNotFound indicates that a referenced list or article is absent from the latest snapshot
	ErrNotFound = errors.New("entity not found")

	// ErrValidationFailed indicates that validation checks have failed
	ErrValidationFailed = errors.New("validation failed")

	// ErrUnauthorized indicates that the session does not identify an authorized user
	ErrUnauthorized = errors.New("session not authorized")

	// ErrServiceUnavailable indicates that a read from the remote service failed
	ErrServiceUnavailable = errors.New("service unavailable")

	// ErrRemoteOperationFailed indicates that a mutation against the remote service failed
	ErrRemoteOperationFailed = errors.New("remote operation failed")

	// ErrAlreadyInFlight indicates that another mutation on the same entity is still outstanding
	ErrAlreadyInFlight = errors.New("operation already in progress")

	// ErrStaleSnapshot indicates that a mutation succeeded but the follow-up reload did not
	ErrStaleSnapshot = errors.New("snapshot reload failed")
)

// ValidationError represents a validation error with detailed field information.
// It implements the error interface and provides context about which field failed validation.
type ValidationError struct {
	Field   string
	Message string
}

// Error returns a formatted error message for the validation error.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}

// Unwrap lets errors.Is match ErrValidationFailed.
func (e *ValidationError) Unwrap() error {
	return ErrValidationFailed
}

// RemoteError describes a failed call to the remote entity service.
// Either StatusCode/Body (non-2xx response) or Err (transport failure) is set.
type RemoteError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
	Err        error
}

// Error mirrors the service's "HTTP <status>: <body>" message so it can be shown verbatim.
func (e *RemoteError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
	}
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Body)
}

// Unwrap returns the transport error, if any.
func (e *RemoteError) Unwrap() error {
	return e.Err
}

// HTTPStatus returns the response status, or 0 for transport failures.
func (e *RemoteError) HTTPStatus() int {
	return e.StatusCode
}
