package http

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/stings-api/internal/application/auth"
	"github.com/jhoicas/stings-api/internal/application/billing"
	"github.com/jhoicas/stings-api/internal/application/contacts"
	"github.com/jhoicas/stings-api/pkg/logger"
)

// Pinger verifica la conexión al store (lo implementa *pgxpool.Pool).
type Pinger interface {
	Ping(ctx context.Context) error
}

// RouterDeps dependencias para el router.
type RouterDeps struct {
	APIKeyUC      *auth.APIKeyUseCase
	ContactUC     *contacts.ContactUseCase
	CreateInvoice *billing.CreateInvoiceUseCase
	DB            Pinger // opcional: /health responde 503 si falla el ping
	ServiceName   string
	Log           *logger.Logger
}

// Router registra middlewares globales y las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Use(RequestIDMiddleware())
	app.Use(AccessLog(deps.Log))
	app.Use(CORS(DefaultCORSConfig))

	app.Get("/health", func(c *fiber.Ctx) error {
		if deps.DB != nil {
			if err := deps.DB.Ping(c.UserContext()); err != nil {
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "error", "service": deps.ServiceName, "message": err.Error()})
			}
		}
		return c.JSON(fiber.Map{"status": "ok", "service": deps.ServiceName})
	})

	// Todas las rutas /api requieren apiKey + secretKey
	api := app.Group("/api", APIKeyMiddleware(deps.APIKeyUC, deps.Log))

	contactHandler := NewContactHandler(deps.ContactUC, deps.Log)
	contactsWrite := RequireScope(auth.ScopeContactsWrite, deps.Log)
	api.Post("/create_partner", contactsWrite, contactHandler.CreatePartner)
	api.Post("/create_shipping", contactsWrite, contactHandler.CreateShipping)
	api.Patch("/update_contact", contactsWrite, contactHandler.UpdateContact)

	invoiceHandler := NewInvoiceHandler(deps.CreateInvoice, deps.Log)
	api.Post("/create_invoice", RequireScope(auth.ScopeInvoicesWrite, deps.Log), invoiceHandler.Create)
}
