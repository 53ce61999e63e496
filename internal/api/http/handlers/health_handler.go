package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/risk-catalog/internal/store"
)

// HealthHandler responds to liveness and readiness probes.
type HealthHandler struct {
	serviceName string
	version     string
	docs        store.DocumentStore
}

// NewHealthHandler returns a new handler instance.
func NewHealthHandler(serviceName, version string, docs store.DocumentStore) *HealthHandler {
	return &HealthHandler{serviceName: serviceName, version: version, docs: docs}
}

// Live reports service liveness.
func (h *HealthHandler) Live(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "alive",
		"service": h.serviceName,
		"version": h.version,
	})
}

// Ready reports service readiness by checking the configured document store.
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := h.docs.Ping(ctx); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": fiber.Map{
				"code":    "DEPENDENCY_UNAVAILABLE",
				"message": "document store unavailable",
			},
		})
	}

	return c.JSON(fiber.Map{
		"status": "ready",
		"dependencies": fiber.Map{
			"store": "ok",
		},
	})
}
