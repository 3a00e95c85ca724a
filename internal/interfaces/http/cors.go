package http

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// CORSConfig cabeceras CORS devueltas en todas las respuestas.
type CORSConfig struct {
	AllowOrigin      string
	AllowMethods     []string
	AllowHeaders     []string
	AllowCredentials bool
	MaxAge           int // segundos
}

// DefaultCORSConfig: cualquier origen, credenciales permitidas y preflight cacheado una hora.
var DefaultCORSConfig = CORSConfig{
	AllowOrigin:      "*",
	AllowMethods:     []string{fiber.MethodGet, fiber.MethodPost, fiber.MethodOptions, fiber.MethodPatch},
	AllowHeaders:     []string{fiber.HeaderContentType, HeaderAPIKey, HeaderSecretKey},
	AllowCredentials: true,
	MaxAge:           3600,
}

// CORS agrega las cabeceras a cada respuesta y contesta los preflight OPTIONS con 200 y cuerpo vacío,
// antes de la autenticación.
// middleware/cors de Fiber rechaza AllowOrigins "*" junto con AllowCredentials, por eso va aparte.
func CORS(cfg CORSConfig) fiber.Handler {
	methods := strings.Join(cfg.AllowMethods, ",")
	headers := strings.Join(cfg.AllowHeaders, ", ")
	maxAge := strconv.Itoa(cfg.MaxAge)
	return func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderAccessControlAllowOrigin, cfg.AllowOrigin)
		c.Set(fiber.HeaderAccessControlAllowMethods, methods)
		c.Set(fiber.HeaderAccessControlAllowHeaders, headers)
		if cfg.AllowCredentials {
			c.Set(fiber.HeaderAccessControlAllowCredentials, "true")
		}
		c.Set(fiber.HeaderAccessControlMaxAge, maxAge)
		if c.Method() == fiber.MethodOptions {
			c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
			c.Status(fiber.StatusOK)
			return nil
		}
		return c.Next()
	}
}
