package domain

import (
	"errors"
	"fmt"
)

// Domain-specific errors for better error handling and user feedback
var (
	// ErrDocumentNotFound is returned when a key holds no document
	ErrDocumentNotFound = errors.New("document not found")

	// ErrInvalidCollection is returned when a collection name has invalid characters
	ErrInvalidCollection = errors.New("invalid collection name")

	// ErrInvalidKey is returned when a document key has invalid characters
	ErrInvalidKey = errors.New("invalid document key")

	// ErrInvalidValue is returned when the provided value is not valid JSON
	ErrInvalidValue = errors.New("invalid document value")

	// ErrKeyGenerationFailed is returned when no free server-assigned key could be found
	ErrKeyGenerationFailed = errors.New("key generation failed")

	// ErrStoreUnavailable is returned when the backing store cannot be reached
	ErrStoreUnavailable = errors.New("storage temporarily unavailable")

	// ErrRateLimitExceeded is returned when rate limit is hit
	ErrRateLimitExceeded = errors.New("rate limit exceeded")
)

// AppError wraps errors with additional context for better debugging
type AppError struct {
	Err        error  // Original error
	Message    string // User-friendly message
	StatusCode int    // HTTP status code
	Internal   bool   // Whether to log as internal error
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Err.Error()
}

// Unwrap returns the wrapped error for errors.Is and errors.As
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new application error with context
func NewAppError(err error, message string, statusCode int, internal bool) *AppError {
	return &AppError{
		Err:        err,
		Message:    message,
		StatusCode: statusCode,
		Internal:   internal,
	}
}

// NewNotFoundError creates a 404 error
func NewNotFoundError(resource string) *AppError {
	return &AppError{
		Err:        ErrDocumentNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		StatusCode: 404,
		Internal:   false,
	}
}

// NewValidationError creates a 400 validation error
func NewValidationError(err error, message string) *AppError {
	return &AppError{
		Err:        err,
		Message:    message,
		StatusCode: 400,
		Internal:   false,
	}
}

// NewUnavailableError creates a 503 error for an unreachable backing store
func NewUnavailableError(err error) *AppError {
	return &AppError{
		Err:        fmt.Errorf("%w: %v", ErrStoreUnavailable, err),
		Message:    "Storage is temporarily unavailable",
		StatusCode: 503,
		Internal:   true, // Log this error
	}
}

// NewInternalError creates a 500 internal server error
func NewInternalError(err error) *AppError {
	return &AppError{
		Err:        err,
		Message:    "Internal server error occurred",
		StatusCode: 500,
		Internal:   true, // Log this error
	}
}
