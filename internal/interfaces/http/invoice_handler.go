package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/stings-api/internal/application/billing"
	"github.com/jhoicas/stings-api/internal/application/dto"
	"github.com/jhoicas/stings-api/pkg/logger"
)

// InvoiceHandler maneja las peticiones HTTP de facturación.
type InvoiceHandler struct {
	uc  *billing.CreateInvoiceUseCase
	log *logger.Logger
}

// NewInvoiceHandler construye el handler.
func NewInvoiceHandler(uc *billing.CreateInvoiceUseCase, log *logger.Logger) *InvoiceHandler {
	return &InvoiceHandler{uc: uc, log: log}
}

// Create crea una factura de cliente en borrador.
// POST /api/create_invoice
//
//	@Summary		Crea una factura de cliente en borrador
//	@Description	Arma el asiento completo: conceptos, una línea por impuesto y la cuenta por cobrar.
//	@Tags			invoices
//	@Param			apiKey		header	string						true	"API key"
//	@Param			secretKey	header	string						true	"Secret key"
//	@Param			body		body	dto.CreateInvoiceRequest	true	"invoice_data e invoice_lines"
//	@Success		201				{object}	dto.InvoiceCreatedResponse
//	@Failure		400,401,404,500	{object}	dto.ErrorResponse
//	@Router			/api/create_invoice [post]
func (h *InvoiceHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateInvoiceRequest
	if err := parseJSON(c, &in); err != nil {
		return invalidJSON(c)
	}
	out, err := h.uc.CreateInvoice(c.UserContext(), GetServiceAccount(c), &in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}
