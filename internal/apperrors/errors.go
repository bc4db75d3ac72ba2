package apperrors

import (
	"errors"
	"fmt"
)

// ErrorCode classifies an AppError.
type ErrorCode string

const (
	CodeValidation        ErrorCode = "VALIDATION_ERROR"
	CodeNotFound          ErrorCode = "NOT_FOUND"
	CodeConflict          ErrorCode = "CONFLICT"
	CodeInvalidTransition ErrorCode = "INVALID_TRANSITION"
	CodeStale             ErrorCode = "STALE_RECORD"
	CodeStore             ErrorCode = "STORE_ERROR"
	CodeTimeout           ErrorCode = "TIMEOUT"
)

// AppError is the error type returned by the store and service layers.
// Field is set for validation errors and names the offending JSON field.
type AppError struct {
	Code    ErrorCode
	Message string
	Field   string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error { return e.Err }

// Is reports whether target is an AppError with the same code, so the
// sentinels below can be used with errors.Is.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

var (
	ErrValidation        = &AppError{Code: CodeValidation, Message: "validation failed"}
	ErrNotFound          = &AppError{Code: CodeNotFound, Message: "not found"}
	ErrConflict          = &AppError{Code: CodeConflict, Message: "conflict"}
	ErrInvalidTransition = &AppError{Code: CodeInvalidTransition, Message: "invalid status transition"}
	ErrStale             = &AppError{Code: CodeStale, Message: "record was modified concurrently"}
	ErrStore             = &AppError{Code: CodeStore, Message: "store error"}
	ErrTimeout           = &AppError{Code: CodeTimeout, Message: "operation timed out"}
)

func New(code ErrorCode, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func Validation(field, message string) *AppError {
	return &AppError{Code: CodeValidation, Message: message, Field: field}
}

func NotFound(message string) *AppError {
	return &AppError{Code: CodeNotFound, Message: message}
}

func Conflict(message string, err error) *AppError {
	return &AppError{Code: CodeConflict, Message: message, Err: err}
}

func InvalidTransition(from, to string) *AppError {
	return &AppError{
		Code:    CodeInvalidTransition,
		Message: fmt.Sprintf("cannot move payroll from %s to %s", from, to),
	}
}

func Store(message string, err error) *AppError {
	return &AppError{Code: CodeStore, Message: message, Err: err}
}

func Timeout(message string, err error) *AppError {
	return &AppError{Code: CodeTimeout, Message: message, Err: err}
}

// Get returns the AppError in err's chain, or nil.
func Get(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// CodeOf returns the code of the AppError in err's chain. Unknown errors are
// reported as store errors.
func CodeOf(err error) ErrorCode {
	if appErr := Get(err); appErr != nil {
		return appErr.Code
	}
	return CodeStore
}
