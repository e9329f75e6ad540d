package router

import (
	"github.com/gofiber/fiber/v3"
	recoverer "github.com/gofiber/fiber/v3/middleware/recover"

	"github.com/HassanAliMAli/you-trend/internal/handler"
	"github.com/HassanAliMAli/you-trend/internal/middleware"
)

// Handlers holds all handler instances needed by the router.
type Handlers struct {
	Trend   *handler.TrendHandler
	Compare *handler.CompareHandler
	Health  *handler.HealthHandler
}

// Setup configures the middleware stack and all API routes on the given Fiber app.
func Setup(app *fiber.App, h *Handlers, corsOrigins []string) {
	// Middleware stack (order matters)
	app.Use(recoverer.New())
	app.Use(middleware.NewRequestID())
	app.Use(middleware.NewRequestLogger())
	app.Use(handler.MetricsMiddleware())
	app.Use(middleware.NewCORS(corsOrigins))

	// Health and metrics (outside the API group, not rate limited)
	app.Get("/health/live", h.Health.Live)
	app.Get("/health/ready", h.Health.Ready)
	app.Get("/metrics", handler.MetricsHandler())

	api := app.Group("/api")

	analysisLimit := middleware.NewAnalysisRateLimiter().Handler()
	api.Post("/trends/videos", analysisLimit, h.Trend.Videos)
	api.Post("/trends/channels", analysisLimit, h.Trend.Channels)
	api.Post("/topics", analysisLimit, h.Trend.Topics)

	api.Post("/compare", middleware.NewCompareRateLimiter().Handler(), h.Compare.Compare)
}
