package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/risk-catalog/internal/api/dto"
	"github.com/spec-kit/risk-catalog/internal/auth"
	"github.com/spec-kit/risk-catalog/internal/domain"
	"github.com/spec-kit/risk-catalog/internal/repository"
	"github.com/spec-kit/risk-catalog/internal/store"
	apperrors "github.com/spec-kit/risk-catalog/pkg/util"
)

// UsersHandler exposes admin-only user management endpoints. The role gate in
// front of these routes guarantees the caller is an admin; no route lets a
// principal change its own role outside this surface.
type UsersHandler struct {
	users      repository.UserRepository
	bcryptCost int
}

// NewUsersHandler constructs handler.
func NewUsersHandler(users repository.UserRepository, bcryptCost int) *UsersHandler {
	return &UsersHandler{users: users, bcryptCost: bcryptCost}
}

// List handles GET /admin/users.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	principals, err := h.users.List(c.Context())
	if err != nil {
		return apperrors.MapError(err)
	}

	out := make([]dto.UserResponse, 0, len(principals))
	for _, p := range principals {
		out = append(out, dto.NewUserResponse(p))
	}
	return c.JSON(out)
}

// Create handles POST /admin/users.
func (h *UsersHandler) Create(c *fiber.Ctx) error {
	var req struct {
		dto.RegisterRequest
		Role string `json:"role"`
	}
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Password == "" || req.CompanyName == "" {
		return apperrors.NewValidationError("email, password and companyName are required", nil)
	}

	role := domain.RoleUser
	if req.Role != "" {
		if !domain.Role(req.Role).Valid() {
			return apperrors.NewValidationError("unknown role", map[string]any{"role": req.Role})
		}
		role = domain.Role(req.Role)
	}

	if _, err := h.users.GetByID(c.Context(), req.Email); err == nil {
		return apperrors.NewAlreadyExists("user already exists")
	} else if !errors.Is(err, store.ErrNotFound) {
		return apperrors.MapError(err)
	}

	hash, err := auth.HashPassword(req.Password, h.bcryptCost)
	if err != nil {
		return apperrors.MapError(err)
	}

	principal := &domain.Principal{
		ID:           req.Email,
		Email:        req.Email,
		Role:         role,
		CompanyName:  req.CompanyName,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := h.users.Create(c.Context(), principal); err != nil {
		if errors.Is(err, store.ErrDuplicateID) {
			return apperrors.NewAlreadyExists("user already exists")
		}
		return apperrors.MapError(err)
	}
	return c.Status(http.StatusCreated).JSON(dto.NewUserResponse(principal))
}

// Update handles PUT /admin/users/:user_id. A plaintext password in the patch
// is hashed before it reaches the store.
func (h *UsersHandler) Update(c *fiber.Ctx) error {
	id := c.Params("user_id")

	var patch store.Document
	if err := c.BodyParser(&patch); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if role, ok := patch["role"].(string); ok && !domain.Role(role).Valid() {
		return apperrors.NewValidationError("unknown role", map[string]any{"role": role})
	}
	if password, ok := patch["password"].(string); ok {
		hash, err := auth.HashPassword(password, h.bcryptCost)
		if err != nil {
			return apperrors.MapError(err)
		}
		delete(patch, "password")
		patch["password_hash"] = hash
	}

	changed, err := h.users.Update(c.Context(), id, patch)
	if err != nil {
		return apperrors.MapError(err)
	}
	if !changed {
		return apperrors.NewNotFound("user", map[string]any{"id": id})
	}
	return c.JSON(fiber.Map{"message": "user updated"})
}

// Delete handles DELETE /admin/users/:user_id.
func (h *UsersHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("user_id")

	existed, err := h.users.Delete(c.Context(), id)
	if err != nil {
		return apperrors.MapError(err)
	}
	if !existed {
		return apperrors.NewNotFound("user", map[string]any{"id": id})
	}
	return c.JSON(fiber.Map{"message": "user deleted"})
}
