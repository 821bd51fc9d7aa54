// Package errors defines the application-level error taxonomy exposed
// over HTTP: validation failures surfaced before any remote call,
// remote-store failures converted at the store boundary, and not-found
// conditions.
package errors

import (
	"net/http"

	"pfm/internal/errors"
)

// AppError defines the interface for application-specific errors
type AppError interface {
	error
	HTTPCode() int     // HTTP status code
	ErrorCode() string // Business error code
	Message() string   // User-friendly error message
	Details() string   // Detailed error information (optional)
}

// BaseError is a basic error structure that implements the AppError interface
type BaseError struct {
	httpCode  int
	errorCode string
	message   string
	details   string
}

// NewBaseError creates a new base error
func NewBaseError(httpCode int, errorCode, message, details string) *BaseError {
	return &BaseError{
		httpCode:  httpCode,
		errorCode: errorCode,
		message:   message,
		details:   details,
	}
}

// Error implements the error interface
func (e *BaseError) Error() string {
	return e.message
}

// WrapMessage wraps the error with additional context message
func (e *BaseError) WrapMessage(message string) error {
	return errors.Wrap(e, message)
}

// HTTPCode returns the HTTP status code
func (e *BaseError) HTTPCode() int {
	return e.httpCode
}

// ErrorCode returns the business error code
func (e *BaseError) ErrorCode() string {
	return e.errorCode
}

// Message returns the user-friendly error message
func (e *BaseError) Message() string {
	return e.message
}

// Details returns detailed error information
func (e *BaseError) Details() string {
	return e.details
}

// WithDetails adds detailed error information
func (e *BaseError) WithDetails(details string) *BaseError {
	return &BaseError{
		httpCode:  e.httpCode,
		errorCode: e.errorCode,
		message:   e.message,
		details:   details,
	}
}

// Predefined error types
var (
	// Device-related errors
	ErrInvalidDeviceID = NewBaseError(
		http.StatusBadRequest,
		"INVALID_DEVICE_ID",
		"Device ID must match the PFM-XXXX-XXXX-XXXX label format",
		"",
	)

	ErrDeviceNotFound = NewBaseError(
		http.StatusNotFound,
		"DEVICE_NOT_FOUND",
		"Device not found",
		"",
	)

	ErrDeviceNotLinked = NewBaseError(
		http.StatusForbidden,
		"DEVICE_NOT_LINKED",
		"This device is not registered to your account",
		"",
	)

	// Schedule and timer validation errors
	ErrScheduleDuration = NewBaseError(
		http.StatusBadRequest,
		"SCHEDULE_DURATION_RANGE",
		"Feeding duration must be between 1 and 30 seconds",
		"",
	)

	ErrScheduleNotFound = NewBaseError(
		http.StatusNotFound,
		"SCHEDULE_NOT_FOUND",
		"Schedule entry not found",
		"",
	)

	ErrTimerMinutes = NewBaseError(
		http.StatusBadRequest,
		"TIMER_MINUTES_RANGE",
		"Timer must be between 1 and 120 minutes",
		"",
	)

	ErrInvalidTimeOfDay = NewBaseError(
		http.StatusBadRequest,
		"INVALID_TIME_OF_DAY",
		"Feeding time must be a valid wall-clock time",
		"",
	)

	// Authentication-related errors
	ErrUnauthorized = NewBaseError(
		http.StatusUnauthorized,
		"UNAUTHORIZED",
		"Authentication required",
		"",
	)

	ErrIdentityTokenInvalid = NewBaseError(
		http.StatusUnauthorized,
		"IDENTITY_TOKEN_INVALID",
		"Invalid or expired identity token",
		"",
	)

	ErrRefreshTokenInvalid = NewBaseError(
		http.StatusUnauthorized,
		"REFRESH_TOKEN_INVALID",
		"Invalid or expired refresh token",
		"",
	)

	// Remote store errors
	ErrRemoteStore = NewBaseError(
		http.StatusBadGateway,
		"REMOTE_STORE_FAILED",
		"The device store could not be reached",
		"",
	)

	// Validation errors from request binding
	ErrValidationFailed = NewBaseError(
		http.StatusBadRequest,
		"VALIDATION_FAILED",
		"Request validation failed",
		"",
	)

	// General errors
	ErrNotFound = NewBaseError(
		http.StatusNotFound,
		"NOT_FOUND",
		"Resource not found",
		"",
	)

	ErrInternalError = NewBaseError(
		http.StatusInternalServerError,
		"INTERNAL_ERROR",
		"Internal server error",
		"",
	)
)
