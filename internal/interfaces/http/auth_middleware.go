package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/lanave/agencias-api/internal/application/dto"
	"github.com/lanave/agencias-api/pkg/jwt"
)

// Locals keys para el contexto de actor en Fiber.
const (
	LocalUserID    = "user_id"
	LocalAgenciaID = "agencia_id"
	LocalRole      = "role"
)

// Roles conocidos. Los tokens los emite el servicio de usuarios; aquí solo se
// valida firma y se extrae el contexto.
const (
	RolTaquillera = "taquillera"
	RolEncargada  = "encargada"
	RolAdmin      = "admin"
)

// AuthMiddleware valida el Bearer Token JWT y extrae actor, agencia y rol a c.Locals.
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
		actor, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		c.Locals(LocalUserID, actor.UserID)
		c.Locals(LocalAgenciaID, actor.AgenciaID)
		c.Locals(LocalRole, actor.Role)
		return c.Next()
	}
}

// RequireRole exige que el actor tenga alguno de los roles dados.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role := GetRole(c)
		for _, r := range roles {
			if role == r {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "rol insuficiente para esta operación"})
	}
}

// GetUserID devuelve el UserID del contexto (después del middleware de auth).
func GetUserID(c *fiber.Ctx) string {
	return localString(c, LocalUserID)
}

// GetAgenciaID devuelve la agencia asignada al actor (vacío para admin).
func GetAgenciaID(c *fiber.Ctx) string {
	return localString(c, LocalAgenciaID)
}

// GetRole devuelve el rol del actor.
func GetRole(c *fiber.Ctx) string {
	return localString(c, LocalRole)
}

func localString(c *fiber.Ctx, key string) string {
	v := c.Locals(key)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}
