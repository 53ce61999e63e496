package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/risk-catalog/internal/api/dto"
	"github.com/spec-kit/risk-catalog/internal/auth"
	"github.com/spec-kit/risk-catalog/internal/service"
	apperrors "github.com/spec-kit/risk-catalog/pkg/util"
)

// AuthHandler exposes registration, login and token validation endpoints.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Password == "" || req.CompanyName == "" {
		return apperrors.NewValidationError("email, password and companyName are required", nil)
	}

	user, err := h.auth.Register(c.Context(), req.Email, req.Password, req.CompanyName)
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"message": "user created",
		"user":    dto.NewUserResponse(user),
	})
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("email and password are required", nil)
	}

	user, token, expiresAt, err := h.auth.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"token":      token,
		"expires_at": expiresAt,
		"user":       dto.NewUserResponse(user),
	})
}

// Validate handles POST /auth/validate. It re-verifies a bearer token without
// touching any protected route.
func (h *AuthHandler) Validate(c *fiber.Ctx) error {
	token, err := auth.ExtractBearer(c.Get("Authorization"))
	if err != nil {
		return apperrors.NewUnauthorized(err.Error())
	}

	user, err := h.auth.Validate(c.Context(), token)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"valid": true,
		"user":  dto.NewUserResponse(user),
	})
}

// Me handles GET /auth/me for authenticated principals.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	return c.JSON(dto.NewUserResponse(principal))
}
