package common

import (
	"errors"
	"fmt"
	"time"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// ErrorTypeConnectivity for transport failures: DNS, TLS, timeouts, refused connections
	ErrorTypeConnectivity ErrorType = "connectivity"
	// ErrorTypeAuth for rejected credentials (401/403)
	ErrorTypeAuth ErrorType = "auth"
	// ErrorTypeNotFound for resources missing in every API family
	ErrorTypeNotFound ErrorType = "not_found"
	// ErrorTypeMalformedResponse for bodies that are neither JSON nor an HTML page
	ErrorTypeMalformedResponse ErrorType = "malformed_response"
	// ErrorTypeConfiguration for missing or invalid session and config data
	ErrorTypeConfiguration ErrorType = "configuration"
	// ErrorTypeStorage for persistence errors
	ErrorTypeStorage ErrorType = "storage"
	// ErrorTypeInternal for internal system errors
	ErrorTypeInternal ErrorType = "internal"
)

// ReporterError represents a structured error with context
type ReporterError struct {
	Type      ErrorType              `json:"type"`
	Code      string                 `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	Context   map[string]interface{} `json:"context,omitempty"`
	Cause     error                  `json:"-"`
}

// Error implements the error interface
func (e *ReporterError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%s:%s] %s: %s", e.Type, e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s:%s] %s", e.Type, e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *ReporterError) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error
func (e *ReporterError) WithContext(key string, value interface{}) *ReporterError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// WithDetails sets a human readable detail line
func (e *ReporterError) WithDetails(details string) *ReporterError {
	e.Details = details
	return e
}

// WithCause sets the underlying cause
func (e *ReporterError) WithCause(cause error) *ReporterError {
	e.Cause = cause
	return e
}

// NewError creates a new ReporterError
func NewError(errorType ErrorType, code, message string) *ReporterError {
	return &ReporterError{
		Type:      errorType,
		Code:      code,
		Message:   message,
		Timestamp: time.Now(),
	}
}

func NewConnectivityError(code, message string) *ReporterError {
	return NewError(ErrorTypeConnectivity, code, message)
}

func NewAuthError(code, message string) *ReporterError {
	return NewError(ErrorTypeAuth, code, message)
}

func NewNotFoundError(code, message string) *ReporterError {
	return NewError(ErrorTypeNotFound, code, message)
}

func NewMalformedResponseError(code, message string) *ReporterError {
	return NewError(ErrorTypeMalformedResponse, code, message)
}

func NewConfigurationError(code, message string) *ReporterError {
	return NewError(ErrorTypeConfiguration, code, message)
}

// WrapError wraps an existing error with ReporterError context
func WrapError(err error, errorType ErrorType, code, message string) *ReporterError {
	return &ReporterError{
		Type:      errorType,
		Code:      code,
		Message:   message,
		Timestamp: time.Now(),
		Cause:     err,
	}
}

// IsErrorType reports whether any ReporterError in err's chain has the given type
func IsErrorType(err error, errorType ErrorType) bool {
	var re *ReporterError
	for err != nil {
		if !errors.As(err, &re) {
			return false
		}
		if re.Type == errorType {
			return true
		}
		err = re.Cause
	}
	return false
}
