package http

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/stings-api/internal/application/auth"
	"github.com/jhoicas/stings-api/pkg/logger"
)

// Cabeceras de autenticación de la API.
const (
	HeaderAPIKey    = "apiKey"
	HeaderSecretKey = "secretKey"
)

// LocalServiceAccount key en c.Locals de la cuenta de servicio autenticada.
const LocalServiceAccount = "service_account"

// authenticator es el contrato mínimo que necesita el middleware; lo implementa *auth.APIKeyUseCase.
type authenticator interface {
	Authenticate(ctx context.Context, apiKey, secretKey string) (*auth.ServiceAccount, error)
}

// APIKeyMiddleware valida los headers apiKey/secretKey y deja la cuenta de servicio en c.Locals.
//   - 400 si falta alguno (no se consulta el store).
//   - 401 si el par no corresponde a una credencial activa.
//   - 500 si falla la consulta.
func APIKeyMiddleware(authn authenticator, log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sa, err := authn.Authenticate(c.UserContext(), c.Get(HeaderAPIKey), c.Get(HeaderSecretKey))
		if err != nil {
			return respondError(c, log, err)
		}
		c.Locals(LocalServiceAccount, *sa)
		return c.Next()
	}
}

// GetServiceAccount devuelve la cuenta de servicio del contexto (después de APIKeyMiddleware).
// Sin middleware devuelve una cuenta vacía, sin permisos.
func GetServiceAccount(c *fiber.Ctx) auth.ServiceAccount {
	sa, _ := c.Locals(LocalServiceAccount).(auth.ServiceAccount)
	return sa
}
