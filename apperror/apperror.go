package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotAuthenticated    = errors.New("not authenticated")
	ErrForbidden           = errors.New("forbidden")
	ErrNotFound            = errors.New("not found")
	ErrValidation          = errors.New("validation error")
	ErrConflict            = errors.New("conflict")
	ErrDuplicateFavorite   = errors.New("duplicate favorite")
	ErrCascadeFailure      = errors.New("cascade failure")
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	ErrTimeout             = errors.New("timeout")
)

type AppError struct {
	Err     error  // one of the sentinels above
	Message string // human-readable
	Field   string // optional, for validation errors
	Cause   error  // optional underlying error, not exposed to clients
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap exposes both the sentinel and the cause to errors.Is/As.
func (e *AppError) Unwrap() []error {
	if e.Cause != nil {
		return []error{e.Err, e.Cause}
	}
	return []error{e.Err}
}

func NotAuthenticated() *AppError {
	return &AppError{Err: ErrNotAuthenticated, Message: "authentication required"}
}

// Forbidden returns an AppError indicating the caller lacks rights over the target.
func Forbidden(message string) *AppError {
	return &AppError{Err: ErrForbidden, Message: message}
}

func NotFound(resource string, id interface{}) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %v", resource, id),
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{Err: ErrValidation, Message: message, Field: field}
}

// Conflict reports a value that is already taken, such as a username.
func Conflict(field, message string) *AppError {
	return &AppError{Err: ErrConflict, Message: message, Field: field}
}

func DuplicateFavorite(userID uint, target string) *AppError {
	return &AppError{
		Err:     ErrDuplicateFavorite,
		Message: fmt.Sprintf("user %d already favorited %s", userID, target),
	}
}

// CascadeFailure reports a multi-step delete that was aborted at step.
func CascadeFailure(step string, cause error) *AppError {
	return &AppError{
		Err:     ErrCascadeFailure,
		Message: fmt.Sprintf("delete aborted while removing %s", step),
		Cause:   cause,
	}
}

func UpstreamUnavailable(service string, cause error) *AppError {
	return &AppError{
		Err:     ErrUpstreamUnavailable,
		Message: fmt.Sprintf("%s unavailable", service),
		Cause:   cause,
	}
}

func Timeout(operation string, cause error) *AppError {
	return &AppError{
		Err:     ErrTimeout,
		Message: fmt.Sprintf("%s timed out", operation),
		Cause:   cause,
	}
}

// Kind returns a short machine-readable name for the sentinel err wraps, or "internal".
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotAuthenticated):
		return "not_authenticated"
	case errors.Is(err, ErrForbidden):
		return "forbidden"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrValidation):
		return "validation_error"
	case errors.Is(err, ErrDuplicateFavorite):
		return "duplicate_favorite"
	case errors.Is(err, ErrConflict):
		return "conflict"
	case errors.Is(err, ErrCascadeFailure):
		return "cascade_failure"
	case errors.Is(err, ErrTimeout):
		return "timeout"
	case errors.Is(err, ErrUpstreamUnavailable):
		return "upstream_unavailable"
	default:
		return "internal"
	}
}
