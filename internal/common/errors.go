package common

import (
	"errors"
	"fmt"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Common application errors
var (
	// ErrValidation marks malformed, missing, out-of-domain, or logically
	// inconsistent input fields. Surfaced to the caller, never retried.
	ErrValidation = errors.New("validation failed")

	// ErrConfiguration marks a classifier/scaler artifact that failed to load
	// at startup. Disables only the affected food type's endpoint.
	ErrConfiguration = errors.New("configuration error")

	// ErrInference marks an unexpected classifier failure on valid input.
	// Surfaced as a generic server error, logged with detail server-side.
	ErrInference = errors.New("inference error")

	ErrNotFound     = errors.New("resource not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrUnavailable  = errors.New("service unavailable")
	ErrInternal     = errors.New("internal error")
)

// Error constructors
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// ValidationErrorf builds a caller-facing input error.
func ValidationErrorf(format string, args ...interface{}) error {
	return NewAppError("VALIDATION_ERROR", fmt.Sprintf(format, args...), ErrValidation)
}

// FieldError builds a validation error naming the offending field.
func FieldError(field, message string) error {
	return NewAppError("VALIDATION_ERROR", fmt.Sprintf("field %q %s", field, message), ErrValidation)
}

// ConfigurationErrorf builds a startup artifact-load error.
func ConfigurationErrorf(format string, args ...interface{}) error {
	return NewAppError("CONFIGURATION_ERROR", fmt.Sprintf(format, args...), ErrConfiguration)
}

// InferenceErrorf wraps an unexpected classifier failure.
func InferenceErrorf(format string, args ...interface{}) error {
	return NewAppError("INFERENCE_ERROR", fmt.Sprintf(format, args...), ErrInference)
}

// UnauthorizedError builds a credential failure with a caller-safe message.
func UnauthorizedError(message string) error {
	return NewAppError("UNAUTHORIZED", message, ErrUnauthorized)
}

// UnavailableErrorf marks a capability that is disabled or unreachable.
func UnavailableErrorf(format string, args ...interface{}) error {
	return NewAppError("UNAVAILABLE", fmt.Sprintf(format, args...), ErrUnavailable)
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// IsValidation reports whether err belongs to the validation class.
func IsValidation(err error) bool { return errors.Is(err, ErrValidation) }

// IsUnavailable reports whether err marks a disabled capability.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable) || errors.Is(err, ErrConfiguration)
}
