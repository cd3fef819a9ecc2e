package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/crm-service/internal/api/http/handlers"
	"github.com/spec-kit/crm-service/internal/auth"
	"github.com/spec-kit/crm-service/internal/domain"
	"github.com/spec-kit/crm-service/internal/ratelimit"
	apperrors "github.com/spec-kit/crm-service/pkg/util"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Enquiries      *handlers.EnquiriesHandler
	AuthMiddleware *auth.AuthMiddleware
	// SubmitLimiter throttles anonymous enquiry submissions; nil disables it.
	SubmitLimiter *ratelimit.Limiter
	// ListAllRoles restricts GET /api/enquiries; empty allows any employee.
	ListAllRoles []domain.EmployeeRole
}

// RegisterRoutes wires HTTP routes. Unmatched paths end in a JSON 404.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/", cfg.Health.Root)
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", cfg.Health.Metrics)

	protect := cfg.AuthMiddleware.Handle
	api := app.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Get("/me", protect, cfg.Auth.Me)

	enquiries := api.Group("/enquiries")
	submit := []fiber.Handler{cfg.Enquiries.Submit}
	if cfg.SubmitLimiter.Enabled() {
		submit = append([]fiber.Handler{cfg.SubmitLimiter.Middleware()}, submit...)
	}
	enquiries.Post("/submit", submit...)
	enquiries.Get("/unclaimed", protect, cfg.Enquiries.ListUnclaimed)
	enquiries.Get("/my-claims", protect, cfg.Enquiries.ListMyClaims)
	enquiries.Put("/claim/:id", protect, cfg.Enquiries.Claim)
	enquiries.Get("/:id", protect, cfg.Enquiries.Get)
	enquiries.Get("/", protect, auth.RequireRole(cfg.ListAllRoles...), cfg.Enquiries.ListAll)

	app.Use(func(c *fiber.Ctx) error {
		return apperrors.NewRouteNotFound()
	})
}
