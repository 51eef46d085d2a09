package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/dte-engine/internal/application/dto"
	"github.com/tu-usuario/dte-engine/pkg/jwt"
)

// LocalEmisorNIT clave de Locals con el NIT del emisor autenticado.
const LocalEmisorNIT = "emisor_nit"

// AuthMiddleware valida el Bearer Token JWT y deja el NIT del emisor en c.Locals.
func AuthMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header requerido"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vacío"})
		}
		emisorNIT, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		c.Locals(LocalEmisorNIT, emisorNIT)
		return c.Next()
	}
}

// GetEmisorNIT devuelve el NIT del emisor autenticado (después del middleware).
func GetEmisorNIT(c *fiber.Ctx) string {
	v := c.Locals(LocalEmisorNIT)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}
