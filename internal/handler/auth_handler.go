package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/thesbsofficial/unity-v3-sub000/internal/handler/middleware"
	"github.com/thesbsofficial/unity-v3-sub000/internal/service"
	"github.com/thesbsofficial/unity-v3-sub000/pkg/validator"
)

type AuthHandler struct {
	authService *service.AuthService
	validator   *validator.Validator
}

func NewAuthHandler(authService *service.AuthService, validator *validator.Validator) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validator:   validator,
	}
}

// Register handles account creation
// POST /api/v1/auth/register
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req service.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if err := h.validator.Validate(req); err != nil {
		return badRequest(c, err.Error())
	}

	resp, err := h.authService.Register(c.Context(), req, c.IP(), c.Get("User-Agent"))
	if err != nil {
		return respondError(c, err)
	}

	middleware.SetSessionCookie(c, resp.Token)
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// Login handles user login
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req service.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if err := h.validator.Validate(req); err != nil {
		return badRequest(c, err.Error())
	}

	resp, err := h.authService.Login(c.Context(), req, c.IP(), c.Get("User-Agent"))
	if err != nil {
		return respondError(c, err)
	}

	middleware.SetSessionCookie(c, resp.Token)
	return c.Status(fiber.StatusOK).JSON(resp)
}

// Logout destroys the presented session
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	token := middleware.TokenFromCtx(c)

	if err := h.authService.Logout(c.Context(), token); err != nil {
		return respondError(c, err)
	}

	middleware.ClearSessionCookie(c)
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Logged out successfully",
	})
}

// Me returns the authenticated user's profile
// GET /api/v1/auth/me
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	session := middleware.SessionFromCtx(c)

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"user": fiber.Map{
			"id":    session.UserID,
			"email": session.Email,
			"name":  session.Name,
			"role":  session.Role,
		},
		"csrf_secret": session.CSRFSecret,
	})
}

// ChangePassword verifies the old password and rotates the credential
// POST /api/v1/auth/change-password
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	var req struct {
		OldPassword string `json:"old_password" validate:"required"`
		NewPassword string `json:"new_password" validate:"required,min=8,max=128"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if err := h.validator.Validate(req); err != nil {
		return badRequest(c, err.Error())
	}

	session := middleware.SessionFromCtx(c)
	if err := h.authService.ChangePassword(c.Context(), session.UserID, req.OldPassword, req.NewPassword); err != nil {
		return respondError(c, err)
	}

	// Every session including this one is gone; the client must log in again.
	middleware.ClearSessionCookie(c)
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Password changed, please log in again",
	})
}

// ForgotPassword emails a reset link. Always responds 200 so the endpoint
// cannot be used to probe for registered addresses.
// POST /api/v1/auth/forgot-password
func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	var req struct {
		Email string `json:"email" validate:"required,email"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if err := h.validator.Validate(req); err != nil {
		return badRequest(c, err.Error())
	}

	if err := h.authService.ForgotPassword(c.Context(), req.Email); err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "If the address is registered, a reset link has been sent",
	})
}

// ResetPassword consumes a reset token and sets a new password
// POST /api/v1/auth/reset-password
func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var req struct {
		Token       string `json:"token" validate:"required"`
		NewPassword string `json:"new_password" validate:"required,min=8,max=128"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if err := h.validator.Validate(req); err != nil {
		return badRequest(c, err.Error())
	}

	if err := h.authService.ResetPassword(c.Context(), req.Token, req.NewPassword); err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Password reset, please log in",
	})
}
