package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/lanave/agencias-api/internal/application/banqueo"
	"github.com/lanave/agencias-api/internal/application/dto"
	"github.com/lanave/agencias-api/internal/application/reports"
	"github.com/lanave/agencias-api/internal/domain"
)

// BanqueoHandler maneja la liquidación semanal de clientes banqueo.
type BanqueoHandler struct {
	uc *banqueo.SettlementUseCase
}

// NewBanqueoHandler construye el handler.
func NewBanqueoHandler(uc *banqueo.SettlementUseCase) *BanqueoHandler {
	return &BanqueoHandler{uc: uc}
}

// Previsualizar calcula la liquidación de la semana sin persistirla.
func (h *BanqueoHandler) Previsualizar(c *fiber.Ctx) error {
	clienteID := c.Params("clienteID")
	if clienteID == "" {
		return respondError(c, fmt.Errorf("%w: clienteID es requerido", domain.ErrInvalidInput))
	}
	desde, err := parseFecha(c, "desde")
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Previsualizar(c.Context(), clienteID, reports.LunesDe(desde))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Guardar persiste la liquidación de la semana: reemplaza completas las filas
// del cliente para esa semana, conservando las banderas de pago existentes.
func (h *BanqueoHandler) Guardar(c *fiber.Ctx) error {
	clienteID := c.Params("clienteID")
	if clienteID == "" {
		return respondError(c, fmt.Errorf("%w: clienteID es requerido", domain.ErrInvalidInput))
	}
	desde, err := parseFecha(c, "desde")
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Guardar(c.Context(), clienteID, reports.LunesDe(desde))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// MarcarPago alterna la bandera de pago de una fila en una moneda.
func (h *BanqueoHandler) MarcarPago(c *fiber.Ctx) error {
	var req dto.MarcarPagoRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if req.FilaID == "" {
		return respondError(c, fmt.Errorf("%w: fila_id es requerido", domain.ErrInvalidInput))
	}
	if err := h.uc.MarcarPago(c.Context(), req); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
