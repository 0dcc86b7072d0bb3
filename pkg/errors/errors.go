package errors

import (
	"errors"
	"fmt"
)

// ErrorCode identifies the kind of domain failure. The same three shapes
// (not exists / permission denied / already exists) recur across booking,
// billing and payment, so they live here instead of per-domain types.
type ErrorCode int

const (
	ErrNotExists ErrorCode = iota + 1000
	ErrPermissionDenied
	ErrAlreadyExists
	ErrConflict
	ErrBadRequest
	ErrInternal
)

// AppError is the shared tagged error type for domain failures.
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
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

// Is matches AppErrors by code so callers can compare against constructor
// results with errors.Is.
func (e *AppError) Is(target error) bool {
	var appErr *AppError
	if !errors.As(target, &appErr) {
		return false
	}
	return e.Code == appErr.Code
}

func NotExists(resource string) *AppError {
	return &AppError{
		Code:    ErrNotExists,
		Message: fmt.Sprintf("%s doesn't exist", resource),
	}
}

func PermissionDenied() *AppError {
	return &AppError{
		Code:    ErrPermissionDenied,
		Message: "not authorized to perform this action",
	}
}

func AlreadyExists(resource string) *AppError {
	return &AppError{
		Code:    ErrAlreadyExists,
		Message: fmt.Sprintf("%s already exists", resource),
	}
}

// Conflict reports a lost optimistic-concurrency race on a status transition.
func Conflict(resource string) *AppError {
	return &AppError{
		Code:    ErrConflict,
		Message: fmt.Sprintf("%s was modified concurrently", resource),
	}
}

func BadRequest(message string, err error) *AppError {
	return &AppError{
		Code:    ErrBadRequest,
		Message: message,
		Err:     err,
	}
}

func Internal(err error) *AppError {
	return &AppError{
		Code:    ErrInternal,
		Message: "internal server error",
		Err:     err,
	}
}

// CodeOf returns the error code carried by err, or ErrInternal when err is
// not an AppError.
func CodeOf(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrInternal
}
