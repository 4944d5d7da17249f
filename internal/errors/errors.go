// Package errors defines the error taxonomy for an analysis run. Fatal
// errors carry a code that the API layer maps to an HTTP status and the CLI
// surfaces directly; everything else (per-file content failures, enhancer
// failures) is absorbed into the report and never reaches this package.
package errors

import "fmt"

// ErrCode classifies a fatal analysis error.
type ErrCode string

const (
	// ErrCodeConfiguration rejects a run before any network call: malformed
	// identifier or missing credentials.
	ErrCodeConfiguration ErrCode = "CONFIGURATION"
	ErrCodeNotFound      ErrCode = "NOT_FOUND"
	ErrCodeUnauthorized  ErrCode = "UNAUTHORIZED"
	ErrCodeRateLimited   ErrCode = "RATE_LIMITED"
	// ErrCodeTransport is a residual fetch failure after the provider's own
	// backoff; the run produces no partial report.
	ErrCodeTransport  ErrCode = "TRANSPORT"
	ErrCodeBadRequest ErrCode = "BAD_REQUEST"
)

// AppError is a coded application error.
type AppError struct {
	Code    ErrCode
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewConfigurationError builds a pre-flight rejection.
func NewConfigurationError(message string) *AppError {
	return &AppError{Code: ErrCodeConfiguration, Message: message}
}

// NewNotFoundError builds an error for a missing resource.
func NewNotFoundError(resource string) *AppError {
	return &AppError{Code: ErrCodeNotFound, Message: fmt.Sprintf("%s not found", resource)}
}

// NewUnauthorizedError builds an error for rejected credentials.
func NewUnauthorizedError(message string) *AppError {
	return &AppError{Code: ErrCodeUnauthorized, Message: message}
}

// NewRateLimitedError builds an error for an exhausted API budget.
func NewRateLimitedError(message string) *AppError {
	return &AppError{Code: ErrCodeRateLimited, Message: message}
}

// NewTransportError wraps a residual fetch failure.
func NewTransportError(message string, err error) *AppError {
	return &AppError{Code: ErrCodeTransport, Message: message, Err: err}
}

// NewBadRequestError builds an error for an invalid API request.
func NewBadRequestError(message string) *AppError {
	return &AppError{Code: ErrCodeBadRequest, Message: message}
}

// IsConfiguration reports whether err is a pre-flight rejection.
func IsConfiguration(err error) bool {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code == ErrCodeConfiguration
	}
	return false
}

// IsNotFound reports whether err is a missing-resource error.
func IsNotFound(err error) bool {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code == ErrCodeNotFound
	}
	return false
}
