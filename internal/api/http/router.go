package http

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/kruxfinance/support-chat/internal/api/http/handlers"
	"github.com/kruxfinance/support-chat/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Customer       *handlers.CustomerHandler
	Agent          *handlers.AgentHandler
	AuthMiddleware *auth.AuthMiddleware
	Metrics        http.Handler
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics))
	}

	authGroup := app.Group("/auth")
	authGroup.Post("/login", cfg.Auth.Login)
	session := authGroup.Group("", cfg.AuthMiddleware.Handle, auth.RequireAnyRole())
	session.Post("/logout", cfg.Auth.Logout)
	session.Get("/me", cfg.Auth.Me)

	customer := app.Group("/customer", cfg.AuthMiddleware.Handle, auth.RequireCustomer())
	customer.Get("/chat", cfg.Customer.GetChat)
	customer.Post("/chat/messages", cfg.Customer.SendMessage)

	agent := app.Group("/agent", cfg.AuthMiddleware.Handle, auth.RequireAgent())
	agent.Get("/tickets", cfg.Agent.ListTickets)
	agent.Get("/tickets/:id", cfg.Agent.GetTicket)
	agent.Post("/tickets/:id/messages", cfg.Agent.SendMessage)
	agent.Post("/tickets/:id/resolve", cfg.Agent.Resolve)
	agent.Get("/quick-replies", cfg.Agent.QuickReplies)
}
