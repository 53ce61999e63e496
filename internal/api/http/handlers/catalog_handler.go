package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/risk-catalog/internal/auth"
	"github.com/spec-kit/risk-catalog/internal/service"
	"github.com/spec-kit/risk-catalog/internal/store"
	apperrors "github.com/spec-kit/risk-catalog/pkg/util"
)

// CatalogHandler serves the generic CRUD surface shared by every catalog
// collection. Each handler is bound to its collection at route registration.
type CatalogHandler struct {
	catalog *service.CatalogService
}

// NewCatalogHandler constructs handler.
func NewCatalogHandler(catalog *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// List handles GET /admin/{collection}.
func (h *CatalogHandler) List(collection string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		docs, err := h.catalog.List(c.Context(), collection)
		if err != nil {
			return err
		}
		return c.JSON(docs)
	}
}

// Create handles POST /admin/{collection}.
func (h *CatalogHandler) Create(collection string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var doc store.Document
		if err := c.BodyParser(&doc); err != nil || doc == nil {
			return apperrors.NewValidationError("invalid payload", nil)
		}

		actor, _ := auth.PrincipalFromContext(c)
		created, err := h.catalog.Create(c.Context(), collection, doc, actor)
		if err != nil {
			return err
		}
		return c.Status(http.StatusCreated).JSON(created)
	}
}

// Update handles PUT /admin/{collection}/:id.
func (h *CatalogHandler) Update(collection string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var patch store.Document
		if err := c.BodyParser(&patch); err != nil || patch == nil {
			return apperrors.NewValidationError("invalid payload", nil)
		}

		actor, _ := auth.PrincipalFromContext(c)
		if err := h.catalog.Update(c.Context(), collection, c.Params("id"), patch, actor); err != nil {
			return err
		}
		return c.JSON(fiber.Map{"message": "document updated"})
	}
}

// Delete handles DELETE /admin/{collection}/:id.
func (h *CatalogHandler) Delete(collection string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, _ := auth.PrincipalFromContext(c)
		if err := h.catalog.Delete(c.Context(), collection, c.Params("id"), actor); err != nil {
			return err
		}
		return c.JSON(fiber.Map{"message": "document deleted"})
	}
}
