package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/noah-isme/edura-go-api/internal/config"
	"github.com/noah-isme/edura-go-api/internal/handler"
	"github.com/noah-isme/edura-go-api/internal/middleware"
	"github.com/noah-isme/edura-go-api/internal/models"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	PurchaseHandler *handler.PurchaseHandler
	EnrollHandler   *handler.EnrollHandler
	BatchHandler    *handler.BatchHandler
	RoleHandler     *handler.RoleHandler
	WebhookHandler  *handler.WebhookHandler
	AuditHandler    *handler.AuditHandler
	AuthHandler     *handler.AuthHandler
	InvoiceHandler  *handler.InvoiceHandler
	JWTMiddleware   fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	if deps.AuthHandler != nil {
		auth := api.Group("/auth")
		deps.AuthHandler.Register(auth)
	}

	if deps.PurchaseHandler != nil {
		purchases := api.Group("/purchases", jwtMiddleware)
		deps.PurchaseHandler.Register(purchases)
	}

	// Payment provider callbacks carry their own authenticity story and sit
	// outside the bearer-token surface.
	if deps.WebhookHandler != nil {
		webhooks := api.Group("/webhooks")
		deps.WebhookHandler.Register(webhooks)
	}

	admin := api.Group("/admin", jwtMiddleware)

	if deps.EnrollHandler != nil {
		enroll := admin.Group("/enroll", middleware.RequireRole(models.RoleAdmin, models.RoleSuperadmin))
		deps.EnrollHandler.Register(enroll)

		enrollments := admin.Group("/enrollments", middleware.RequireRole(models.RoleAdmin, models.RoleSuperadmin, models.RoleSupport))
		deps.EnrollHandler.RegisterQueries(enrollments)
	}

	if deps.BatchHandler != nil {
		batches := admin.Group("/batches", middleware.RequireRole(models.RoleAdmin, models.RoleSuperadmin))
		deps.BatchHandler.Register(batches)
	}

	// The role group is deliberately not behind RequireRole: the bootstrap
	// rule must see callers that carry no role claim at all.
	if deps.RoleHandler != nil {
		roles := admin.Group("/roles")
		deps.RoleHandler.Register(roles)
	}

	if deps.AuditHandler != nil {
		audits := admin.Group("/audits", middleware.RequireRole(models.RoleAdmin, models.RoleSuperadmin, models.RoleSupport))
		deps.AuditHandler.Register(audits)
	}

	if deps.InvoiceHandler != nil {
		invoices := admin.Group("/invoices", middleware.RequireRole(models.RoleAdmin, models.RoleSuperadmin))
		deps.InvoiceHandler.Register(invoices)
	}
}
