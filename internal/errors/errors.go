/*
Package errors - Custom Error Types

Provides typed error definitions for consistent error handling across the
application. Replaces string-based error checking with type assertions,
making error handling more robust and maintainable.

USAGE:
    // In service layer:
    return errors.ErrSessionNotFound

    // In handler layer:
    if errors.Is(err, errors.ErrSessionNotFound) {
        c.JSON(http.StatusNotFound, ...)
    }

    // For wrapped errors:
    return errors.Wrap(err, errors.ErrUpstreamHTTPError)
*/
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Re-export standard library functions for convenience
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
)

// AppError represents an application-level error with HTTP status code
type AppError struct {
	Code       string // Machine-readable error code
	Message    string // Human-readable message
	HTTPStatus int    // HTTP status code for API responses
	Err        error  // Underlying error (optional)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is implements error matching for errors.Is()
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewAppError creates a new application error
func NewAppError(code string, message string, status int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: status,
	}
}

// Wrap wraps an underlying error with an AppError
func Wrap(err error, appErr *AppError) *AppError {
	return &AppError{
		Code:       appErr.Code,
		Message:    appErr.Message,
		HTTPStatus: appErr.HTTPStatus,
		Err:        err,
	}
}

// WithMessage creates a copy of the error with a custom message
func (e *AppError) WithMessage(msg string) *AppError {
	return &AppError{
		Code:       e.Code,
		Message:    msg,
		HTTPStatus: e.HTTPStatus,
		Err:        e.Err,
	}
}

// ============================================================================
// Input Errors
// ============================================================================

var (
	ErrInvalidInput = NewAppError(
		"INVALID_INPUT",
		"Invalid input provided",
		http.StatusBadRequest,
	)

	// ErrInvalidInterval is a more specific sub-kind of ErrInvalidInput,
	// raised eagerly whenever a time entry's end does not fall strictly
	// after its start. The original calculator silently treated this as
	// a zero-duration interval; this implementation rejects it instead.
	ErrInvalidInterval = NewAppError(
		"INVALID_INTERVAL",
		"Entry end time must be after start time",
		http.StatusBadRequest,
	)
)

// ============================================================================
// Preview Session Errors
// ============================================================================

var (
	ErrSessionNotFound = NewAppError(
		"SESSION_NOT_FOUND",
		"Preview session not found or expired",
		http.StatusNotFound,
	)
)

// ============================================================================
// Danløn Connection Errors
// ============================================================================

var (
	ErrNotConnected = NewAppError(
		"NOT_CONNECTED",
		"Company is not connected to Danløn",
		http.StatusBadRequest,
	)

	// ErrTokenRefreshFailed does NOT delete the stored token (see C8's
	// RefreshAccessToken) - the user must explicitly reconnect.
	ErrTokenRefreshFailed = NewAppError(
		"TOKEN_REFRESH_FAILED",
		"Failed to refresh Danløn access token, please reconnect",
		http.StatusInternalServerError,
	)

	ErrUpstreamHTTPError = NewAppError(
		"UPSTREAM_HTTP_ERROR",
		"Danløn upstream request failed",
		http.StatusBadGateway,
	)

	ErrUpstreamGraphQLError = NewAppError(
		"UPSTREAM_GRAPHQL_ERROR",
		"Danløn GraphQL request returned errors",
		http.StatusBadGateway,
	)

	ErrMappingMissing = NewAppError(
		"MAPPING_MISSING",
		"No pay code or employee mapping found",
		http.StatusUnprocessableEntity,
	)
)

// ============================================================================
// Internal Errors
// ============================================================================

var (
	ErrInternal = NewAppError(
		"INTERNAL_ERROR",
		"An internal error occurred",
		http.StatusInternalServerError,
	)

	ErrServiceUnavailable = NewAppError(
		"SERVICE_UNAVAILABLE",
		"Service temporarily unavailable",
		http.StatusServiceUnavailable,
	)
)

// ============================================================================
// Rate Limiting Errors
// ============================================================================

var (
	ErrRateLimitExceeded = NewAppError(
		"RATE_LIMIT_EXCEEDED",
		"Too many requests, please try again later",
		http.StatusTooManyRequests,
	)
)

// ============================================================================
// Helper Functions
// ============================================================================

// GetHTTPStatus returns the HTTP status code for an error
func GetHTTPStatus(err error) int {
	var appErr *AppError
	if As(err, &appErr) {
		return appErr.HTTPStatus
	}
	return http.StatusInternalServerError
}

// GetErrorCode returns the error code for an error
func GetErrorCode(err error) string {
	var appErr *AppError
	if As(err, &appErr) {
		return appErr.Code
	}
	return "UNKNOWN_ERROR"
}

// GetErrorMessage returns the user-friendly message for an error
func GetErrorMessage(err error) string {
	var appErr *AppError
	if As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}
