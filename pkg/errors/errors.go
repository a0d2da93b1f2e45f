package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType represents the category of error
type ErrorType string

const (
	// Client errors
	ErrorTypeValidation ErrorType = "VALIDATION"
	ErrorTypeNotFound   ErrorType = "NOT_FOUND"
	ErrorTypeConflict   ErrorType = "CONFLICT"

	// Server errors
	ErrorTypeConfiguration ErrorType = "CONFIGURATION"
	ErrorTypeProvider      ErrorType = "PROVIDER"
	ErrorTypeInternal      ErrorType = "INTERNAL"
)

// Stable error codes surfaced to API clients.
const (
	CodeDuplicateName      = "DUPLICATE_NAME"
	CodeInvalidDefinition  = "INVALID_DEFINITION"
	CodeIntentNotFound     = "INTENT_NOT_FOUND"
	CodeComponentNotFound  = "COMPONENT_NOT_FOUND"
	CodeParameterInvalid   = "PARAMETER_VALIDATION_FAILED"
	CodeDataProviderFailed = "DATA_PROVIDER_ERROR"
	CodeRenderFailed       = "RENDER_FAILED"
	CodeInvalidSource      = "INVALID_SOURCE"
	CodeInvalidCursor      = "INVALID_CURSOR"
)

// AppError represents an application-specific error
type AppError struct {
	Type       ErrorType   `json:"type"`
	Code       string      `json:"code,omitempty"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
	Cause      error       `json:"-"`
	HTTPStatus int         `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithCode sets the stable error code
func (e *AppError) WithCode(code string) *AppError {
	e.Code = code
	return e
}

// WithDetails adds error details
func (e *AppError) WithDetails(details interface{}) *AppError {
	e.Details = details
	return e
}

// WithCause wraps an underlying error
func (e *AppError) WithCause(err error) *AppError {
	e.Cause = err
	return e
}

// NewValidationError creates a 400-class validation error.
func NewValidationError(code, message string) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       code,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

// NewNotFoundError creates a 404-class error for an unknown registry entry.
func NewNotFoundError(code, message string) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Code:       code,
		Message:    message,
		HTTPStatus: http.StatusNotFound,
	}
}

// NewConflictError creates a conflict error (duplicate registration).
func NewConflictError(code, message string) *AppError {
	return &AppError{
		Type:       ErrorTypeConflict,
		Code:       code,
		Message:    message,
		HTTPStatus: http.StatusConflict,
	}
}

// NewConfigurationError creates a 404-surfaced, error-logged misconfiguration.
// An intent mapping to a missing component is a server bug, not a client bug,
// but the render API still answers with COMPONENT_NOT_FOUND.
func NewConfigurationError(code, message string) *AppError {
	return &AppError{
		Type:       ErrorTypeConfiguration,
		Code:       code,
		Message:    message,
		HTTPStatus: http.StatusNotFound,
	}
}

// NewProviderError wraps a data provider collaborator failure. It is tagged
// distinctly so operators can separate platform bugs from intent-author bugs.
func NewProviderError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeProvider,
		Code:       CodeDataProviderFailed,
		Message:    message,
		Cause:      cause,
		HTTPStatus: http.StatusBadGateway,
	}
}

// NewInternalError creates an internal error
func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Message:    message,
		Cause:      cause,
		HTTPStatus: http.StatusInternalServerError,
	}
}

// GetAppError extracts an AppError from an error chain, or nil.
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// IsNotFound reports whether the error chain contains a NotFound or
// Configuration error (both answer 404 on the render API).
func IsNotFound(err error) bool {
	appErr := GetAppError(err)
	if appErr == nil {
		return false
	}
	return appErr.Type == ErrorTypeNotFound || appErr.Type == ErrorTypeConfiguration
}

// HasCode reports whether the error chain carries the given stable code.
func HasCode(err error, code string) bool {
	appErr := GetAppError(err)
	return appErr != nil && appErr.Code == code
}
