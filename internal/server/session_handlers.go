package server

import (
	"momskitchen/internal/models"
	"momskitchen/internal/session"
	"momskitchen/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// RegisterRequest is the sign-up form. ConfirmPassword defaults to Password
// when omitted.
type RegisterRequest struct {
	Email           string  `json:"email"`
	Password        string  `json:"password"`
	ConfirmPassword *string `json:"confirmPassword"`
	Name            string  `json:"name"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// GetSession returns the current authentication snapshot.
func (s *Server) GetSession(c *fiber.Ctx) error {
	state := s.session.AuthState()
	return c.JSON(fiber.Map{
		"isAuthenticated": state.IsAuthenticated,
		"user":            state.User,
		"loading":         state.Loading,
		"status":          state.Status(),
	})
}

// Register handles user registration
func (s *Server) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return sessionResult(c, nil, models.NewValidationError("Invalid request body"))
	}
	confirm := req.Password
	if req.ConfirmPassword != nil {
		confirm = *req.ConfirmPassword
	}
	if err := validation.ValidateRegistration(req.Email, req.Password, confirm, req.Name); err != nil {
		return sessionResult(c, nil, err)
	}

	user, err := s.session.Register(c.UserContext(), req.Email, req.Password, req.Name)
	if err != nil {
		return sessionResult(c, nil, err)
	}
	return c.Status(fiber.StatusCreated).JSON(session.ToResult(user, nil))
}

// Login handles user login
func (s *Server) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return sessionResult(c, nil, models.NewValidationError("Invalid request body"))
	}
	if err := validation.ValidateLogin(req.Email, req.Password); err != nil {
		return sessionResult(c, nil, err)
	}

	user, err := s.session.Login(c.UserContext(), req.Email, req.Password)
	return sessionResult(c, user, err)
}

// Logout ends the session.
func (s *Server) Logout(c *fiber.Ctx) error {
	if err := s.session.Logout(c.UserContext()); err != nil {
		return sessionResult(c, nil, err)
	}
	return c.JSON(session.Result{Success: true})
}

// UpdateProfile merges the posted fields into the signed-in user.
func (s *Server) UpdateProfile(c *fiber.Ctx) error {
	var patch models.UserPatch
	if err := c.BodyParser(&patch); err != nil {
		return sessionResult(c, nil, models.NewValidationError("Invalid request body"))
	}
	if err := validation.ValidateProfile(patch); err != nil {
		return sessionResult(c, nil, err)
	}

	user, err := s.session.UpdateProfile(c.UserContext(), patch)
	return sessionResult(c, user, err)
}

// sessionResult writes the {success, user, error} shape with a status
// derived from err.
func sessionResult(c *fiber.Ctx, user *models.User, err error) error {
	status := fiber.StatusOK
	if err != nil {
		status = statusFor(err)
	}
	return c.Status(status).JSON(session.ToResult(user, err))
}
