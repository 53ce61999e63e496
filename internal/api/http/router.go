package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/risk-catalog/internal/api/http/handlers"
	"github.com/spec-kit/risk-catalog/internal/auth"
	"github.com/spec-kit/risk-catalog/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Users          *handlers.UsersHandler
	Catalog        *handlers.CatalogHandler
	AuthMiddleware *auth.AuthMiddleware

	// AdminOnlyCatalog additionally gates catalog mutations behind the admin
	// role. User management is always admin-only.
	AdminOnlyCatalog bool
}

// RegisterRoutes wires HTTP routes. Guards are mounted per route, not on the
// group: a group-level Use route is prefix-matched and carries no route
// params, which would blind the ownership check to the user_id parameter.
// The auth middleware runs before any role gate; ordering matters because
// the gate reads the attached principal.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/validate", cfg.Auth.Validate)
	authGroup.Get("/me", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated(), cfg.Auth.Me)

	admin := app.Group("/admin")

	users := admin.Group("/users")
	users.Get("/", cfg.AuthMiddleware.Handle, auth.RequireAdmin(), cfg.Users.List)
	users.Post("/", cfg.AuthMiddleware.Handle, auth.RequireAdmin(), cfg.Users.Create)
	users.Put("/:user_id", cfg.AuthMiddleware.Handle, auth.RequireAdmin(), cfg.Users.Update)
	users.Delete("/:user_id", cfg.AuthMiddleware.Handle, auth.RequireAdmin(), cfg.Users.Delete)

	guards := []fiber.Handler{cfg.AuthMiddleware.Handle}
	if cfg.AdminOnlyCatalog {
		guards = append(guards, auth.RequireAdmin())
	}
	for _, collection := range domain.CatalogCollections {
		group := admin.Group("/" + collection)
		group.Get("/", chain(guards, cfg.Catalog.List(collection))...)
		group.Post("/", chain(guards, cfg.Catalog.Create(collection))...)
		group.Put("/:id", chain(guards, cfg.Catalog.Update(collection))...)
		group.Delete("/:id", chain(guards, cfg.Catalog.Delete(collection))...)
	}
}

func chain(guards []fiber.Handler, handler fiber.Handler) []fiber.Handler {
	out := make([]fiber.Handler, 0, len(guards)+1)
	out = append(out, guards...)
	return append(out, handler)
}
