package models

import (
	"errors"
	"fmt"
)

// Error codes surfaced to callers.
const (
	CodeDuplicateAccount = "DUPLICATE_ACCOUNT"
	CodeAccountNotFound  = "ACCOUNT_NOT_FOUND"
	CodeNotLoggedIn      = "NOT_LOGGED_IN"
	CodeOperationFailed  = "OPERATION_FAILED"
	CodeValidation       = "VALIDATION_ERROR"
	CodeNotFound         = "NOT_FOUND"
	CodeForbidden        = "FORBIDDEN"
)

// AppError represents a custom application error
type AppError struct {
	Code    string
	Message string
	Err     error
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

// Predefined error constructors
func NewDuplicateAccountError() *AppError {
	return &AppError{
		Code:    CodeDuplicateAccount,
		Message: "User already exists with this email",
	}
}

func NewAccountNotFoundError() *AppError {
	return &AppError{
		Code:    CodeAccountNotFound,
		Message: "No account found with this email",
	}
}

func NewNotLoggedInError() *AppError {
	return &AppError{
		Code:    CodeNotLoggedIn,
		Message: "No user logged in",
	}
}

// NewOperationFailedError hides a storage fault behind a user-facing message.
func NewOperationFailedError(message string, err error) *AppError {
	return &AppError{
		Code:    CodeOperationFailed,
		Message: message,
		Err:     err,
	}
}

func NewValidationError(message string) *AppError {
	return &AppError{
		Code:    CodeValidation,
		Message: message,
	}
}

func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s with ID %v not found", resource, id),
	}
}

func NewForbiddenError(message string) *AppError {
	return &AppError{
		Code:    CodeForbidden,
		Message: message,
	}
}

// ErrorCode returns the AppError code carried anywhere in err's chain, or "".
func ErrorCode(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// IsCode reports whether err carries the given AppError code.
func IsCode(err error, code string) bool {
	return err != nil && ErrorCode(err) == code
}
