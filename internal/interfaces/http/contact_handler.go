package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/stings-api/internal/application/contacts"
	"github.com/jhoicas/stings-api/internal/application/dto"
	"github.com/jhoicas/stings-api/pkg/logger"
)

// ContactHandler maneja las peticiones HTTP de contactos y direcciones de entrega.
type ContactHandler struct {
	uc  *contacts.ContactUseCase
	log *logger.Logger
}

// NewContactHandler construye el handler.
func NewContactHandler(uc *contacts.ContactUseCase, log *logger.Logger) *ContactHandler {
	return &ContactHandler{uc: uc, log: log}
}

// CreatePartner POST /api/create_partner
//
//	@Summary	Crea un partner principal (empresa o persona física)
//	@Tags		contacts
//	@Param		apiKey		header	string						true	"API key"
//	@Param		secretKey	header	string						true	"Secret key"
//	@Param		body		body	dto.CreatePartnerEnvelope	true	"contact_data"
//	@Success	201			{object}	dto.PartnerCreatedResponse
//	@Failure	400,401,500	{object}	dto.ErrorResponse
//	@Router		/api/create_partner [post]
func (h *ContactHandler) CreatePartner(c *fiber.Ctx) error {
	var in dto.CreatePartnerEnvelope
	if err := parseJSON(c, &in); err != nil {
		return invalidJSON(c)
	}
	out, err := h.uc.CreatePartner(c.UserContext(), GetServiceAccount(c), in.ContactData)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// CreateShipping POST /api/create_shipping
//
//	@Summary	Crea una dirección de entrega ligada al partner con ref parent_id
//	@Tags		contacts
//	@Param		body		body	dto.CreateShippingEnvelope	true	"contact_data"
//	@Success	201			{object}	dto.ShippingCreatedResponse
//	@Failure	400,401,404,500	{object}	dto.ErrorResponse
//	@Router		/api/create_shipping [post]
func (h *ContactHandler) CreateShipping(c *fiber.Ctx) error {
	var in dto.CreateShippingEnvelope
	if err := parseJSON(c, &in); err != nil {
		return invalidJSON(c)
	}
	out, err := h.uc.CreateShipping(c.UserContext(), GetServiceAccount(c), in.ContactData)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// UpdateContact PATCH /api/update_contact
//
//	@Summary		Actualiza el contacto con esa ref; solo escribe los campos enviados
//	@Description	parent_id acepta el id entero del padre o su ref como texto.
//	@Tags			contacts
//	@Param			apiKey		header	string						true	"API key"
//	@Param			secretKey	header	string						true	"Secret key"
//	@Param			body		body	dto.UpdateContactEnvelope	true	"contact_data (ref y name requeridos)"
//	@Success		200				{object}	dto.ContactUpdatedResponse
//	@Failure		400,401,404,500	{object}	dto.ErrorResponse
//	@Router			/api/update_contact [patch]
func (h *ContactHandler) UpdateContact(c *fiber.Ctx) error {
	var in dto.UpdateContactEnvelope
	if err := parseJSON(c, &in); err != nil {
		return invalidJSON(c)
	}
	out, err := h.uc.UpdateContact(c.UserContext(), GetServiceAccount(c), in.ContactData)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusOK).JSON(out)
}
