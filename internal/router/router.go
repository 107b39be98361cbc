package router

import (
	"github.com/gofiber/fiber/v3"
	recoverer "github.com/gofiber/fiber/v3/middleware/recover"

	"github.com/dealheat/dealheat-go/internal/handler"
	"github.com/dealheat/dealheat-go/internal/metrics"
	"github.com/dealheat/dealheat-go/internal/middleware"
)

// Handlers holds all handler instances needed by the router.
type Handlers struct {
	Vote      *handler.VoteHandler
	Deal      *handler.DealHandler
	User      *handler.UserHandler
	Analytics *handler.AnalyticsHandler
	Health    *handler.HealthHandler
}

// Limiters holds the per-route rate limiters.
type Limiters struct {
	Vote      *middleware.RateLimiter
	Read      *middleware.RateLimiter
	Analytics *middleware.RateLimiter
	Freeze    *middleware.RateLimiter
}

// Setup configures the middleware stack and all API routes on the given Fiber app.
func Setup(app *fiber.App, h *Handlers, rl *Limiters, corsOrigins string) {
	// Middleware stack (order matters)
	app.Use(recoverer.New())
	app.Use(middleware.NewRequestLogger())
	app.Use(middleware.NewCORS(corsOrigins))
	app.Use(metrics.Middleware())

	// Health checks (before API group, no rate limit)
	app.Get("/health/live", h.Health.Live)
	app.Get("/health/ready", h.Health.Ready)

	// Prometheus scrape endpoint
	app.Get("/metrics", metrics.Handler())

	// API routes
	api := app.Group("/api")

	// Vote routes
	api.Post("/deals/:dealId/vote", h.Vote.Submit, rl.Vote.Handler())
	api.Get("/deals/:dealId/vote/status", h.Vote.Status, rl.Read.Handler())

	// Deal routes
	api.Get("/deals/:dealId", h.Deal.Get, rl.Read.Handler())
	api.Post("/deals/:dealId/freeze", h.Deal.Freeze, rl.Freeze.Handler())
	api.Delete("/deals/:dealId/freeze", h.Deal.Unfreeze, rl.Freeze.Handler())

	// User routes
	api.Get("/users/:userId", h.User.Get, rl.Read.Handler())

	// Analytics routes
	api.Get("/analytics", h.Analytics.Get, rl.Analytics.Handler())
}
