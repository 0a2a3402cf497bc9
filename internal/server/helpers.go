package server

import (
	"errors"

	"momskitchen/internal/models"

	"github.com/gofiber/fiber/v2"
)

// ErrorResponse is the body of every non-session error.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// statusFor maps an error code to the HTTP status it is reported with.
func statusFor(err error) int {
	switch models.ErrorCode(err) {
	case models.CodeValidation:
		return fiber.StatusBadRequest
	case models.CodeNotLoggedIn:
		return fiber.StatusUnauthorized
	case models.CodeForbidden:
		return fiber.StatusForbidden
	case models.CodeNotFound, models.CodeAccountNotFound:
		return fiber.StatusNotFound
	case models.CodeDuplicateAccount:
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

// respondWithError writes a standardized error body. Wrapped causes are not
// exposed.
func respondWithError(c *fiber.Ctx, status int, err error) error {
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		return c.Status(status).JSON(ErrorResponse{Error: appErr.Message, Code: appErr.Code})
	}
	return c.Status(status).JSON(ErrorResponse{Error: "Internal server error", Code: models.CodeOperationFailed})
}

// fail responds with the status derived from err.
func fail(c *fiber.Ctx, err error) error {
	return respondWithError(c, statusFor(err), err)
}

// currentUser returns the user stored by SessionRequired.
func currentUser(c *fiber.Ctx) *models.User {
	u, _ := c.Locals("user").(*models.User)
	return u
}
