package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/lanave/agencias-api/internal/application/configuracion"
	"github.com/lanave/agencias-api/internal/application/dto"
	"github.com/lanave/agencias-api/internal/domain"
)

// ConfigHandler maneja la configuración de comisiones y participaciones (solo admin).
type ConfigHandler struct {
	uc *configuracion.UseCase
}

// NewConfigHandler construye el handler.
func NewConfigHandler(uc *configuracion.UseCase) *ConfigHandler {
	return &ConfigHandler{uc: uc}
}

// TasasEfectivas devuelve las tasas resueltas por la cascada para (sistema, cliente).
// clienteID vacío resuelve solo con la configuración global del sistema.
func (h *ConfigHandler) TasasEfectivas(c *fiber.Ctx) error {
	sistemaID := c.Params("sistemaID")
	if sistemaID == "" {
		return respondError(c, fmt.Errorf("%w: sistemaID es requerido", domain.ErrInvalidInput))
	}
	out, err := h.uc.TasasEfectivas(c.Context(), sistemaID, c.Query("cliente_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GuardarTasaSistema configura la tasa global de un sistema.
func (h *ConfigHandler) GuardarTasaSistema(c *fiber.Ctx) error {
	sistemaID := c.Params("sistemaID")
	if sistemaID == "" {
		return respondError(c, fmt.Errorf("%w: sistemaID es requerido", domain.ErrInvalidInput))
	}
	var req dto.TasaSistemaRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.uc.GuardarTasaSistema(c.Context(), sistemaID, req); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListarParticipaciones devuelve los overrides por sistema de un cliente.
func (h *ConfigHandler) ListarParticipaciones(c *fiber.Ctx) error {
	clienteID := c.Params("clienteID")
	if clienteID == "" {
		return respondError(c, fmt.Errorf("%w: clienteID es requerido", domain.ErrInvalidInput))
	}
	out, err := h.uc.ListarParticipaciones(c.Context(), clienteID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GuardarParticipacion configura el override de un (cliente, sistema).
func (h *ConfigHandler) GuardarParticipacion(c *fiber.Ctx) error {
	clienteID := c.Params("clienteID")
	if clienteID == "" {
		return respondError(c, fmt.Errorf("%w: clienteID es requerido", domain.ErrInvalidInput))
	}
	var req dto.ParticipacionClienteRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if req.SistemaID == "" {
		return respondError(c, fmt.Errorf("%w: sistema_id es requerido", domain.ErrInvalidInput))
	}
	if err := h.uc.GuardarParticipacionCliente(c.Context(), clienteID, req); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GuardarComisionBanqueo configura la participación Lanave global de un cliente.
func (h *ConfigHandler) GuardarComisionBanqueo(c *fiber.Ctx) error {
	clienteID := c.Params("clienteID")
	if clienteID == "" {
		return respondError(c, fmt.Errorf("%w: clienteID es requerido", domain.ErrInvalidInput))
	}
	var req dto.ComisionBanqueoRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.uc.GuardarComisionBanqueo(c.Context(), clienteID, req); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
