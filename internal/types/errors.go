package types

import (
	"errors"
	"fmt"
)

// ErrorCode represents a namespaced error code for bidforge errors.
type ErrorCode string

// Configuration error codes
const (
	CONFIG_LOAD_FAILED       ErrorCode = "CONFIG_LOAD_FAILED"
	CONFIG_PARSE_FAILED      ErrorCode = "CONFIG_PARSE_FAILED"
	CONFIG_VALIDATION_FAILED ErrorCode = "CONFIG_VALIDATION_FAILED"
)

// RFP record error codes
const (
	RFP_NOT_FOUND      ErrorCode = "RFP_NOT_FOUND"
	RFP_INVALID        ErrorCode = "RFP_INVALID"
	RFP_NO_ITEMS       ErrorCode = "RFP_NO_ITEMS"
	RFP_SCHEMA_UNKNOWN ErrorCode = "RFP_SCHEMA_UNKNOWN"
)

// Pipeline error codes
const (
	PIPELINE_STAGE_FAILED       ErrorCode = "PIPELINE_STAGE_FAILED"
	PIPELINE_INVARIANT_VIOLATED ErrorCode = "PIPELINE_INVARIANT_VIOLATED"
	PIPELINE_PANIC              ErrorCode = "PIPELINE_PANIC"
)

// ForgeError represents a structured error with error code, message, and
// optional cause. It supports error wrapping and retryability hints.
type ForgeError struct {
	Code      ErrorCode
	Message   string
	Retryable bool
	Cause     error
}

// Error implements the error interface.
// Format: "[CODE] message" or "[CODE] message: cause" if cause exists.
func (e *ForgeError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/errors.As chains.
func (e *ForgeError) Unwrap() error {
	return e.Cause
}

// Is matches errors by code so that errors.Is(err, NewError(code, "")) works.
func (e *ForgeError) Is(target error) bool {
	var forgeErr *ForgeError
	if errors.As(target, &forgeErr) {
		return e.Code == forgeErr.Code
	}
	return false
}

// NewError creates a new non-retryable ForgeError.
func NewError(code ErrorCode, message string) *ForgeError {
	return &ForgeError{
		Code:    code,
		Message: message,
	}
}

// NewRetryableError creates a new retryable ForgeError. Use this for
// transient failures that may succeed on a later attempt.
func NewRetryableError(code ErrorCode, message string) *ForgeError {
	return &ForgeError{
		Code:      code,
		Message:   message,
		Retryable: true,
	}
}

// WrapError creates a new non-retryable ForgeError wrapping an existing
// error. The wrapped error is accessible via Unwrap().
func WrapError(code ErrorCode, message string, cause error) *ForgeError {
	return &ForgeError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// CodeOf returns the error code of err if it is a ForgeError, or an empty
// code otherwise.
func CodeOf(err error) ErrorCode {
	var forgeErr *ForgeError
	if errors.As(err, &forgeErr) {
		return forgeErr.Code
	}
	return ""
}
