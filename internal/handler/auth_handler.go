package handler

import (
	"errors"

	"po-analytics/internal/models"
	"po-analytics/internal/service"
	"po-analytics/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req models.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	if req.Username == "" || req.Password == "" {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Username and password are required", nil)
	}

	resp, err := h.authService.Login(c.UserContext(), req)
	if errors.Is(err, service.ErrAccountsUnavailable) {
		return respondError(c, err)
	}
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, err.Error(), nil)
	}

	return utils.SuccessResponse(c, "Login successful", resp)
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	// For JWT, logout is handled client-side by removing the token
	return utils.SuccessResponse(c, "Logout successful", nil)
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	user, err := h.authService.GetUserByID(c.UserContext(), currentUserID(c))
	if errors.Is(err, service.ErrAccountsUnavailable) {
		return respondError(c, err)
	}
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "User not found", err)
	}

	return utils.SuccessResponse(c, "User retrieved successfully", user)
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req models.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	if req.Name == "" || req.Username == "" || req.Email == "" || req.Password == "" {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "All fields are required", nil)
	}
	if len(req.Password) < 6 {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Password must be at least 6 characters", nil)
	}

	user, err := h.authService.Register(c.UserContext(), req)
	if errors.Is(err, service.ErrAccountsUnavailable) {
		return respondError(c, err)
	}
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, err.Error(), nil)
	}

	return utils.SuccessResponse(c, "Registration successful", fiber.Map{
		"user": user,
	})
}
