package errors

import (
	stderrors "errors"
	"fmt"
	"runtime"
)

// AppError represents an application-specific error
type AppError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Details   string `json:"details,omitempty"`
	Cause     error  `json:"-"`
	File      string `json:"file,omitempty"`
	Line      int    `json:"line,omitempty"`
	Operation string `json:"operation,omitempty"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewAppError creates a new application error
func NewAppError(code, message string, cause error) *AppError {
	_, file, line, _ := runtime.Caller(2)
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
		File:    file,
		Line:    line,
	}
}

// WithOperation adds operation context to the error
func (e *AppError) WithOperation(operation string) *AppError {
	e.Operation = operation
	return e
}

// WithDetails adds additional details to the error
func (e *AppError) WithDetails(details string) *AppError {
	e.Details = details
	return e
}

// Common error codes
const (
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeInvalidInput     = "INVALID_INPUT"
	ErrCodeUnauthorized     = "UNAUTHORIZED"
	ErrCodeForbidden        = "FORBIDDEN"
	ErrCodeInternalError    = "INTERNAL_ERROR"
	ErrCodeDatabaseError    = "DATABASE_ERROR"
	ErrCodeConflict         = "CONFLICT"
	ErrCodeDataIntegrity    = "DATA_INTEGRITY"
	ErrCodeInsufficientData = "INSUFFICIENT_DATA"
	ErrCodeConfiguration    = "CONFIGURATION"
)

// Common error constructors
func NotFound(message string, cause error) *AppError {
	return NewAppError(ErrCodeNotFound, message, cause)
}

func InvalidInput(message string, cause error) *AppError {
	return NewAppError(ErrCodeInvalidInput, message, cause)
}

func Unauthorized(message string, cause error) *AppError {
	return NewAppError(ErrCodeUnauthorized, message, cause)
}

func Forbidden(message string, cause error) *AppError {
	return NewAppError(ErrCodeForbidden, message, cause)
}

func InternalError(message string, cause error) *AppError {
	return NewAppError(ErrCodeInternalError, message, cause)
}

func DatabaseError(message string, cause error) *AppError {
	return NewAppError(ErrCodeDatabaseError, message, cause)
}

func Conflict(message string, cause error) *AppError {
	return NewAppError(ErrCodeConflict, message, cause)
}

// DataIntegrity reports a submission that does not resolve against the question catalog.
// It is fatal to that submission only.
func DataIntegrity(message string, cause error) *AppError {
	return NewAppError(ErrCodeDataIntegrity, message, cause)
}

// InsufficientData reports a report that cannot be computed because a required
// assessment category or scope has no answers.
func InsufficientData(message string, cause error) *AppError {
	return NewAppError(ErrCodeInsufficientData, message, cause)
}

// Configuration reports reference data or settings that failed to load. It is
// fatal at startup.
func Configuration(message string, cause error) *AppError {
	return NewAppError(ErrCodeConfiguration, message, cause)
}

// CodeOf returns the code of the first AppError in err's chain, or an empty string.
func CodeOf(err error) string {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

func IsNotFound(err error) bool         { return CodeOf(err) == ErrCodeNotFound }
func IsConflict(err error) bool         { return CodeOf(err) == ErrCodeConflict }
func IsDataIntegrity(err error) bool    { return CodeOf(err) == ErrCodeDataIntegrity }
func IsInsufficientData(err error) bool { return CodeOf(err) == ErrCodeInsufficientData }
func IsConfiguration(err error) bool    { return CodeOf(err) == ErrCodeConfiguration }
