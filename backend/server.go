package backend

import (
	"log/slog"
	"strings"

	"github.com/ellavondegurechaff/stakeforge/backend/handlers"
	"github.com/ellavondegurechaff/stakeforge/backend/middleware"
	"github.com/ellavondegurechaff/stakeforge/backend/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

type Options struct {
	AllowOrigins string
	APIKey       string
}

// NewServer builds the fiber app with global middleware and every route.
func NewServer(api *handlers.API, opts Options) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "StakeForge API",
		ServerHeader: "StakeForge",
		ErrorHandler: middleware.CustomErrorHandler,
	})

	app.Use(recover.New())
	app.Use(middleware.SecurityHeaders())
	if opts.AllowOrigins != "" {
		app.Use(cors.New(cors.Config{
			AllowOrigins: opts.AllowOrigins,
			AllowMethods: "GET,POST,DELETE,OPTIONS",
			AllowHeaders: "Origin,Content-Type,Accept,Authorization,X-API-Key",
		}))
	}
	app.Use(middleware.LoggingMiddleware())

	setupRoutes(app, api, opts.APIKey)
	return app
}

func setupRoutes(app *fiber.App, api *handlers.API, apiKey string) {
	r := app.Group("/api", middleware.APIRateLimit())
	r.Get("/health", api.HealthCheck)
	r.Get("/eligibility", api.Eligibility)
	r.Post("/preview", api.Preview)
	r.Get("/rewards/:key", api.PendingRewards)
	r.Get("/colonies/:id/bonus", api.ColonyBonus)
	r.Get("/actors/:id", api.Actor)
	r.Get("/actors/:id/history", api.ActorHistory)

	admin := r.Group("/admin", middleware.AdminRateLimit(), middleware.APIKeyRequired(apiKey))
	admin.Post("/events", middleware.AuditLogMiddleware("activate-event"), api.ActivateEvent)
	admin.Delete("/events/:kind", middleware.AuditLogMiddleware("deactivate-event"), api.DeactivateEvent)
	admin.Post("/tables/reload", middleware.AuditLogMiddleware("reload-tables"), api.ReloadTables)

	app.Use(func(c *fiber.Ctx) error {
		slog.Warn("No route matched for request",
			slog.String("type", "api"),
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
		)
		return utils.SendNotFound(c, "The requested endpoint does not exist: "+strings.TrimSpace(c.Path()))
	})
}
