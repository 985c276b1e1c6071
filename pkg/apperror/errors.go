package apperror

import (
	"errors"
	"net/http"
)

var (
	ErrNotFound     = errors.New("resource not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrBadRequest   = errors.New("bad request")
	ErrInternal     = errors.New("internal server error")
	ErrInvalidInput = errors.New("invalid input")

	// Engagement core taxonomy. All caller-correctable.
	ErrTargetNotFound  = errors.New("target not found")
	ErrDuplicateRating = errors.New("you have already rated this target")
	ErrInvalidScore    = errors.New("score must be between 1 and 5")
	ErrInvalidTag      = errors.New("tag category does not match target")
	ErrNotOwner        = errors.New("you do not own this resource")
	ErrParentMismatch  = errors.New("parent comment belongs to a different post")
	ErrNestingTooDeep  = errors.New("replies to replies are not allowed")
)

// AppError is a custom error type that can hold an HTTP status code
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError
func New(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// MapErrorToStatus maps common errors to HTTP status codes
func MapErrorToStatus(err error) int {
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrTargetNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrUnauthorized) {
		return http.StatusUnauthorized
	}
	if errors.Is(err, ErrForbidden) || errors.Is(err, ErrNotOwner) {
		return http.StatusForbidden
	}
	if errors.Is(err, ErrDuplicateRating) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrBadRequest) || errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrInvalidScore) || errors.Is(err, ErrInvalidTag) ||
		errors.Is(err, ErrParentMismatch) || errors.Is(err, ErrNestingTooDeep) {
		return http.StatusBadRequest
	}
	// Default to internal server error
	return http.StatusInternalServerError
}
