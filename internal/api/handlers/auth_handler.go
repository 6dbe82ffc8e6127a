package handlers

import (
	"github.com/gofiber/fiber/v2"

	"patient-management-service/internal/domain/dtos"
	"patient-management-service/internal/services"
	"patient-management-service/internal/validation"
)

type AuthHandler struct {
	authService services.AuthServiceContract
	validator   *validation.Validator
}

func NewAuthHandler(as services.AuthServiceContract, v *validation.Validator) *AuthHandler {
	return &AuthHandler{authService: as, validator: v}
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dtos.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest("invalid request body", err)
	}
	if err := h.validator.Struct(req); err != nil {
		return validationFailure("invalid login request", err)
	}
	token, expiresAt, err := h.authService.Login(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(dtos.LoginResponse{
		Message:   "Login successful",
		Token:     token,
		ExpiresAt: expiresAt.Unix(),
	})
}

func RegisterAuthRoutes(router fiber.Router, ah *AuthHandler) {
	router.Post("/login", ah.Login)
}
