package client

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrorType represents the type of transport error
type ErrorType string

const (
	// ErrTypeNetwork indicates the service could not be reached
	ErrTypeNetwork ErrorType = "network"

	// ErrTypeTimeout indicates the request deadline passed
	ErrTypeTimeout ErrorType = "timeout"

	// ErrTypeCanceled indicates the caller gave up on the request
	ErrTypeCanceled ErrorType = "canceled"

	// ErrTypeProvider indicates the service answered with a failure status
	ErrTypeProvider ErrorType = "provider"

	// ErrTypeValidation indicates the request was rejected before sending
	ErrTypeValidation ErrorType = "validation"

	// ErrTypeInternal indicates a client-side failure
	ErrTypeInternal ErrorType = "internal"
)

// ErrNoBody is returned when a successful response carries no body to stream
var ErrNoBody = errors.New("no response body")

// Error is a failure talking to the analysis service
type Error struct {
	// Type categorizes the error
	Type ErrorType `json:"type"`

	// Message provides human-readable error description
	Message string `json:"message"`

	// Endpoint is the path that was called
	Endpoint string `json:"endpoint,omitempty"`

	// StatusCode for HTTP-related errors
	StatusCode int `json:"status_code,omitempty"`

	// Detail is the server's own explanation, when it sent one
	Detail string `json:"detail,omitempty"`

	// Underlying error that caused this error
	Cause error `json:"-"`
}

// Error implements the error interface
func (e *Error) Error() string {
	parts := []string{e.Message}

	if e.StatusCode > 0 {
		parts = append(parts, fmt.Sprintf("status %d", e.StatusCode))
	}
	if e.Detail != "" {
		parts = append(parts, e.Detail)
	}
	if e.Cause != nil {
		parts = append(parts, e.Cause.Error())
	}

	return strings.Join(parts, ": ")
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches errors of the same type
func (e *Error) Is(target error) bool {
	var ce *Error
	if errors.As(target, &ce) {
		return e.Type == ce.Type
	}
	return false
}

// ConfigurationError represents an invalid client configuration
type ConfigurationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error for field '%s': %s", e.Field, e.Message)
}

// NewError creates a transport error
func NewError(errType ErrorType, message, endpoint string) *Error {
	return &Error{
		Type:     errType,
		Message:  message,
		Endpoint: endpoint,
	}
}

// NewErrorWithCause creates a transport error with an underlying cause
func NewErrorWithCause(errType ErrorType, message, endpoint string, cause error) *Error {
	return &Error{
		Type:     errType,
		Message:  message,
		Endpoint: endpoint,
		Cause:    cause,
	}
}

// NewConfigurationError creates a configuration error
func NewConfigurationError(field, message string) *ConfigurationError {
	return &ConfigurationError{
		Field:   field,
		Message: message,
	}
}

// classifyTransportError maps a failed http.Client.Do call onto an error type
func classifyTransportError(ctx context.Context, err error) ErrorType {
	switch {
	case errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled):
		return ErrTypeCanceled
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded):
		return ErrTypeTimeout
	default:
		return ErrTypeNetwork
	}
}

// IsStatusError reports whether err is a failure status from the service
func IsStatusError(err error) bool {
	var ce *Error
	return errors.As(err, &ce) && ce.Type == ErrTypeProvider
}

// IsNetworkError reports whether err means the service was unreachable
func IsNetworkError(err error) bool {
	var ce *Error
	return errors.As(err, &ce) && (ce.Type == ErrTypeNetwork || ce.Type == ErrTypeTimeout)
}
