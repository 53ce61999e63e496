package auth

import (
	"github.com/gofiber/fiber/v2"

	apperrors "github.com/spec-kit/risk-catalog/pkg/util"
)

// RequireAdmin restricts a route to principals holding the admin role. It
// depends on the principal attached by AuthMiddleware and must be composed
// after it.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if !principal.IsAdmin() {
			return apperrors.NewForbidden("admin role required")
		}
		return c.Next()
	}
}

// RequireAuthenticated ensures a principal was attached, without any role
// restriction.
func RequireAuthenticated() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := PrincipalFromContext(c); !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		return c.Next()
	}
}
