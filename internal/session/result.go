package session

import (
	"errors"

	"momskitchen/internal/models"
)

// Result is the discriminated outcome hosts hand back to callers.
type Result struct {
	Success bool         `json:"success"`
	User    *models.User `json:"user,omitempty"`
	Error   string       `json:"error,omitempty"`
	Code    string       `json:"code,omitempty"`
}

// ToResult folds an operation's return values into a Result. Only the
// user-facing message of an AppError is exposed.
func ToResult(user *models.User, err error) Result {
	if err == nil {
		return Result{Success: true, User: user}
	}
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		return Result{Error: appErr.Message, Code: appErr.Code}
	}
	return Result{Error: err.Error(), Code: models.CodeOperationFailed}
}
