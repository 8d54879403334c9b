package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/service-bay/ticket-service/internal/api/http/handlers"
	"github.com/service-bay/ticket-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Users          *handlers.UsersHandler
	Tickets        *handlers.TicketsHandler
	Notifications  *handlers.NotificationsHandler
	Dashboard      *handlers.DashboardHandler
	AuthMiddleware *auth.AuthMiddleware
	// Gatherer backs /metrics; nil skips the endpoint.
	Gatherer prometheus.Gatherer
}

// NewApp builds a fiber app that treats trailing slashes as optional.
func NewApp(name string) *fiber.App {
	return fiber.New(fiber.Config{
		AppName:               name,
		StrictRouting:         false,
		DisableStartupMessage: true,
	})
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{})))
	}

	api := app.Group("/api")
	api.Post("/token", cfg.Auth.Token)
	api.Post("/token/refresh", cfg.Auth.Refresh)
	api.Post("/users/register", cfg.Users.Register)

	authed := api.Group("", cfg.AuthMiddleware.Handle)
	authed.Get("/users/me", cfg.Users.Me)

	admin := auth.RequireAdmin()
	authed.Get("/users", admin, cfg.Users.List)
	authed.Post("/users", admin, cfg.Users.Create)
	authed.Get("/users/:id", admin, cfg.Users.Get)
	authed.Put("/users/:id", admin, cfg.Users.Replace)
	authed.Patch("/users/:id", admin, cfg.Users.Patch)

	authed.Get("/tickets", cfg.Tickets.ListTickets)
	authed.Post("/tickets", cfg.Tickets.CreateTicket)
	authed.Get("/tickets/:id", cfg.Tickets.GetTicket)
	authed.Put("/tickets/:id", cfg.Tickets.ReplaceTicket)
	authed.Patch("/tickets/:id", cfg.Tickets.PatchTicket)

	authed.Get("/notifications", cfg.Notifications.List)
	authed.Post("/notifications/mark_all_as_read", cfg.Notifications.MarkAllRead)

	authed.Get("/dashboard-stats", admin, cfg.Dashboard.Stats)
}
