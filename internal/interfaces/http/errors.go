package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/lanave/agencias-api/internal/application/dto"
	"github.com/lanave/agencias-api/internal/domain"
)

// respondError mapea errores centinela de dominio a códigos HTTP.
// Errores no reconocidos son fallas de infraestructura: 500 con el mensaje tal cual.
func respondError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
	case errors.Is(err, domain.ErrCuadreAprobado):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CUADRE_APROBADO", Message: "el cuadre ya fue aprobado y no admite cambios"})
	case errors.Is(err, domain.ErrSinObservacion):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "OBSERVACION_REQUERIDA", Message: "rechazar requiere una observación"})
	case errors.Is(err, domain.ErrMontoRequerido):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MONTO_REQUERIDO", Message: "el guardado requiere al menos un monto distinto de cero"})
	case errors.Is(err, domain.ErrPorcentajeRango):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "PORCENTAJE_RANGO", Message: "los porcentajes deben estar entre 0 y 100"})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrDuplicate), errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: err.Error()})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: err.Error()})
	case errors.Is(err, domain.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
