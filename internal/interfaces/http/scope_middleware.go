package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/stings-api/internal/application/auth"
	"github.com/jhoicas/stings-api/internal/domain"
	"github.com/jhoicas/stings-api/pkg/logger"
)

// RequireScope corta la petición si la cuenta de servicio no tiene el permiso de la ruta.
// Va DESPUÉS de APIKeyMiddleware (necesita LocalServiceAccount).
//   - 401 si no hay cuenta en el contexto o le falta el permiso.
func RequireScope(scope auth.Scope, log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sa := GetServiceAccount(c)
		if sa.KeyID == 0 {
			return respondError(c, log, fmt.Errorf("%w: sin cuenta de servicio", domain.ErrUnauthorized))
		}
		if err := sa.Require(scope); err != nil {
			return respondError(c, log, err)
		}
		return c.Next()
	}
}
