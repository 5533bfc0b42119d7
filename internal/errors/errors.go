// Package errors provides structured error handling for netsweep operations.
// It defines error codes and error types for input, capacity, and sink
// failures, with utilities for classifying errors at the run boundary.
package errors

import (
	"fmt"
)

// ErrorCode represents different types of errors that can occur.
type ErrorCode string

const (
	// General errors.
	CodeUnknown       ErrorCode = "UNKNOWN"
	CodeValidation    ErrorCode = "VALIDATION"
	CodeConfiguration ErrorCode = "CONFIGURATION"
	CodeCanceled      ErrorCode = "CANCELED"

	// Input errors. These abort a run before any probing starts.
	CodeTargetInvalid ErrorCode = "TARGET_INVALID"
	CodeNoTargets     ErrorCode = "NO_TARGETS"
	CodePortsInvalid  ErrorCode = "PORTS_INVALID"
	CodeNoPorts       ErrorCode = "NO_PORTS"

	// Capacity conditions. Reported as warnings or confirmation gates,
	// never as mid-scan failures.
	CodeHostsTruncated ErrorCode = "HOSTS_TRUNCATED"
	CodeBatchTooLarge  ErrorCode = "BATCH_TOO_LARGE"

	// Persistence errors.
	CodeSinkOpen   ErrorCode = "SINK_OPEN"
	CodeSinkAppend ErrorCode = "SINK_APPEND"
)

// SweepError represents an error that occurred while preparing or running
// a sweep.
type SweepError struct {
	Code    ErrorCode
	Message string
	Target  string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface.
func (e *SweepError) Error() string {
	if e.Target != "" {
		return fmt.Sprintf("[%s] %s (target: %s)", e.Code, e.Message, e.Target)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *SweepError) Unwrap() error {
	return e.Cause
}

// WithContext adds context information to the error.
func (e *SweepError) WithContext(key string, value interface{}) *SweepError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewSweepError creates a new sweep error with the specified code and message.
func NewSweepError(code ErrorCode, message string) *SweepError {
	return &SweepError{
		Code:    code,
		Message: message,
		Context: make(map[string]interface{}),
	}
}

// NewSweepErrorWithTarget creates a sweep error for a specific target.
func NewSweepErrorWithTarget(code ErrorCode, message, target string) *SweepError {
	return &SweepError{
		Code:    code,
		Message: message,
		Target:  target,
		Context: make(map[string]interface{}),
	}
}

// WrapSweepError wraps an existing error as a sweep error.
func WrapSweepError(code ErrorCode, message string, err error) *SweepError {
	return &SweepError{
		Code:    code,
		Message: message,
		Cause:   err,
		Context: make(map[string]interface{}),
	}
}

// ConfigError represents configuration-related errors.
type ConfigError struct {
	Code    ErrorCode
	Message string
	Field   string
	Value   interface{}
	Cause   error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("[%s] %s (field: %s)", e.Code, e.Message, e.Field)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// NewConfigError creates a new configuration error.
func NewConfigError(code ErrorCode, message string) *ConfigError {
	return &ConfigError{
		Code:    code,
		Message: message,
	}
}

// NewConfigFieldError creates a configuration error for a specific field.
func NewConfigFieldError(code ErrorCode, message, field string, value interface{}) *ConfigError {
	return &ConfigError{
		Code:    code,
		Message: message,
		Field:   field,
		Value:   value,
	}
}

// WrapConfigError wraps an existing error as a configuration error.
func WrapConfigError(code ErrorCode, message string, err error) *ConfigError {
	return &ConfigError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// Utility functions for common error operations

// IsCode checks if an error has a specific error code.
func IsCode(err error, code ErrorCode) bool {
	switch e := err.(type) {
	case *SweepError:
		return e.Code == code
	case *ConfigError:
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error if it has one.
func GetCode(err error) ErrorCode {
	switch e := err.(type) {
	case *SweepError:
		return e.Code
	case *ConfigError:
		return e.Code
	}
	return CodeUnknown
}

// IsInputError reports whether an error describes bad run input, meaning
// the run was aborted before any probing started.
func IsInputError(err error) bool {
	switch GetCode(err) {
	case CodeTargetInvalid, CodeNoTargets, CodePortsInvalid, CodeNoPorts:
		return true
	default:
		return false
	}
}

// IsCapacityError reports whether an error describes a capacity condition
// (truncated target set, oversized batch) rather than a hard failure.
func IsCapacityError(err error) bool {
	switch GetCode(err) {
	case CodeHostsTruncated, CodeBatchTooLarge:
		return true
	default:
		return false
	}
}

// Common error creation functions

// ErrNoTargets creates an error for a target spec that expands to nothing.
func ErrNoTargets(spec string) *SweepError {
	return NewSweepErrorWithTarget(CodeNoTargets, "target specification yields no hosts", spec)
}

// ErrNoPorts creates an error for a port spec that parses to an empty set.
func ErrNoPorts(spec string) *SweepError {
	return NewSweepError(CodeNoPorts, "port specification yields no ports").
		WithContext("ports", spec)
}

// ErrBatchTooLarge creates the pre-flight gate error for oversized scans.
func ErrBatchTooLarge(hosts, ports, threshold int) *SweepError {
	return NewSweepError(CodeBatchTooLarge, "scan size exceeds confirmation threshold").
		WithContext("hosts", hosts).
		WithContext("ports", ports).
		WithContext("total_checks", hosts*ports).
		WithContext("threshold", threshold)
}
