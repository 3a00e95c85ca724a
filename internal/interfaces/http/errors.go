package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/stings-api/internal/application/dto"
	"github.com/jhoicas/stings-api/internal/domain"
	"github.com/jhoicas/stings-api/pkg/logger"
)

// respondError traduce errores de dominio al sobre {"status":"error",...}.
// Lo no clasificado sale como 500 con el mensaje original.
func respondError(c *fiber.Ctx, log *logger.Logger, err error) error {
	switch {
	case errors.Is(err, domain.ErrMissingCredentials):
		return c.Status(fiber.StatusBadRequest).JSON(dto.NewErrorResponse("MISSING_CREDENTIALS", err.Error()))
	case errors.Is(err, domain.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.NewErrorResponse("UNAUTHORIZED", err.Error()))
	case errors.Is(err, domain.ErrInvalidInput):
		resp := dto.NewErrorResponse("VALIDATION", err.Error())
		resp.Errors = dto.FieldErrors(err)
		return c.Status(fiber.StatusBadRequest).JSON(resp)
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.NewErrorResponse("NOT_FOUND", err.Error()))
	}

	code := "INTERNAL"
	if errors.Is(err, domain.ErrNoDefaultConfigured) {
		code = "NO_DEFAULT_CONFIGURED"
	}
	log.Error().Err(err).
		Str("request_id", RequestID(c)).
		Int64("key_id", GetServiceAccount(c).KeyID).
		Str("path", c.Path()).
		Msg("API error")
	return c.Status(fiber.StatusInternalServerError).JSON(dto.NewErrorResponse(code, err.Error()))
}

// parseJSON decodifica el cuerpo con el decoder configurado en la app, sin exigir Content-Type.
func parseJSON(c *fiber.Ctx, out any) error {
	return c.App().Config().JSONDecoder(c.Body(), out)
}

func invalidJSON(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.NewErrorResponse("INVALID_JSON", "JSON inválido"))
}
