package http

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/commerce-service/internal/api/http/handlers"
	"github.com/spec-kit/commerce-service/internal/auth"
	"github.com/spec-kit/commerce-service/internal/cache"
	"github.com/spec-kit/commerce-service/internal/repository"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health      *handlers.HealthHandler
	Accounts    *handlers.AccountsHandler
	Products    *handlers.ProductsHandler
	Orders      *handlers.OrdersHandler
	Metrics     *handlers.MetricsHandler
	Auth        *auth.Middleware
	AccountRepo repository.AccountRepository
	Cache       cache.Store
	Logger      *zap.Logger
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", cfg.Auth.Handle, auth.RequireAdmin(cfg.AccountRepo), cfg.Metrics.Snapshot)

	api := app.Group("/api")

	users := api.Group("/users")
	users.Post("/register", cfg.Accounts.Register)
	users.Post("/login", cfg.Accounts.Login)
	users.Post("/refresh-token", cfg.Accounts.Refresh)
	users.Get("/verify/:token", cfg.Accounts.VerifyEmail)
	users.Get("/profile", cfg.Auth.Handle, cfg.Accounts.Profile)

	// The public listing is cached under the anonymous identity; per-item
	// reads skip the cache.
	products := api.Group("/products")
	products.Get("/", cache.Respond("products", cfg.Cache, cfg.Logger), cfg.Products.List)
	products.Get("/:id", cfg.Products.Get)
	products.Post("/", cfg.Auth.Handle, auth.RequireAdmin(cfg.AccountRepo), cfg.Products.Create)
	products.Put("/:id", cfg.Auth.Handle, auth.RequireAdmin(cfg.AccountRepo), cfg.Products.Update)
	products.Delete("/:id", cfg.Auth.Handle, auth.RequireAdmin(cfg.AccountRepo), cfg.Products.Delete)
	products.Post("/:id/reviews", cfg.Auth.Handle, cfg.Products.AddReview)

	// Order listings are cached per resolved identity.
	orders := api.Group("/orders", cfg.Auth.Handle)
	orders.Post("/", cfg.Orders.Create)
	orders.Get("/", cache.Respond("orders", cfg.Cache, cfg.Logger), cfg.Orders.List)
	orders.Get("/:id", cfg.Orders.Get)
}
