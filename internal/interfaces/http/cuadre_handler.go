package http

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	appcuadre "github.com/lanave/agencias-api/internal/application/cuadre"
	"github.com/lanave/agencias-api/internal/application/dto"
	"github.com/lanave/agencias-api/internal/application/reports"
	"github.com/lanave/agencias-api/internal/domain"
)

// CuadreHandler maneja las peticiones del cuadre diario: estado de trabajo
// reconciliado, guardado del consolidado, borradores y reporte semanal.
type CuadreHandler struct {
	rec       *appcuadre.Reconciler
	guardar   *appcuadre.GuardarCuadreUseCase
	drafts    appcuadre.DraftStore
	semana    *reports.SemanaUseCase
	vigilante *appcuadre.Vigilante
}

// NewCuadreHandler construye el handler.
func NewCuadreHandler(rec *appcuadre.Reconciler, guardar *appcuadre.GuardarCuadreUseCase, drafts appcuadre.DraftStore, semana *reports.SemanaUseCase, vigilante *appcuadre.Vigilante) *CuadreHandler {
	return &CuadreHandler{rec: rec, guardar: guardar, drafts: drafts, semana: semana, vigilante: vigilante}
}

// EstadoTrabajo devuelve el estado reconciliado del día: por cada campo gana
// la fuente de mayor precedencia (aprobado > borrador > confirmado > agregado).
func (h *CuadreHandler) EstadoTrabajo(c *fiber.Ctx) error {
	agenciaID, err := agenciaAlcance(c)
	if err != nil {
		return respondError(c, err)
	}
	fecha, err := parseFecha(c, "fecha")
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.rec.EstadoTrabajo(c.Context(), GetUserID(c), agenciaID, fecha)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Guardar persiste el consolidado del día y opcionalmente ejecuta una acción
// de revisión (aprobar, rechazar, reenviar) en la misma transacción.
func (h *CuadreHandler) Guardar(c *fiber.Ctx) error {
	agenciaID, err := agenciaAlcance(c)
	if err != nil {
		return respondError(c, err)
	}
	fecha, err := parseFecha(c, "fecha")
	if err != nil {
		return respondError(c, err)
	}
	var req dto.GuardarCuadreRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if req.Revision != "" && GetRole(c) == RolTaquillera {
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "las acciones de revisión requieren rol encargada o admin"})
	}
	out, err := h.guardar.Guardar(c.Context(), GetUserID(c), agenciaID, fecha, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// MarcarPago alterna la bandera de pago de una deuda o premio pendiente.
func (h *CuadreHandler) MarcarPago(c *fiber.Ctx) error {
	if _, err := agenciaAlcance(c); err != nil {
		return respondError(c, err)
	}
	var req dto.MarcarPagoTransaccionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.guardar.MarcarPago(c.Context(), req); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Borrador devuelve el borrador local del actor para el día, o 204 si no hay.
func (h *CuadreHandler) Borrador(c *fiber.Ctx) error {
	agenciaID, err := agenciaAlcance(c)
	if err != nil {
		return respondError(c, err)
	}
	fecha, err := parseFecha(c, "fecha")
	if err != nil {
		return respondError(c, err)
	}
	b, err := h.drafts.Get(c.Context(), appcuadre.ClaveBorradorDia(GetUserID(c), agenciaID, fecha))
	if err != nil {
		return respondError(c, err)
	}
	if b == nil {
		return c.SendStatus(fiber.StatusNoContent)
	}
	return c.JSON(b)
}

// GuardarBorrador guarda el borrador local del actor (no toca el consolidado).
func (h *CuadreHandler) GuardarBorrador(c *fiber.Ctx) error {
	agenciaID, err := agenciaAlcance(c)
	if err != nil {
		return respondError(c, err)
	}
	fecha, err := parseFecha(c, "fecha")
	if err != nil {
		return respondError(c, err)
	}
	var b dto.BorradorCuadre
	if err := c.BodyParser(&b); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	b.GuardadoEn = time.Now()
	if err := h.guardar.GuardarBorrador(c.Context(), GetUserID(c), agenciaID, fecha, &b); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// DescartarBorrador elimina el borrador local del actor para el día.
func (h *CuadreHandler) DescartarBorrador(c *fiber.Ctx) error {
	agenciaID, err := agenciaAlcance(c)
	if err != nil {
		return respondError(c, err)
	}
	fecha, err := parseFecha(c, "fecha")
	if err != nil {
		return respondError(c, err)
	}
	if err := h.guardar.DescartarBorrador(c.Context(), GetUserID(c), agenciaID, fecha); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Cambios espera (long poll) a que otro actor guarde la agencia/fecha y
// devuelve el estado reconciliado recalculado; 204 si la ventana expira sin
// cambios. Los eventos perdidos no importan: el cliente reconsulta al entrar.
func (h *CuadreHandler) Cambios(c *fiber.Ctx) error {
	agenciaID, err := agenciaAlcance(c)
	if err != nil {
		return respondError(c, err)
	}
	fecha, err := parseFecha(c, "fecha")
	if err != nil {
		return respondError(c, err)
	}

	espera := 25 * time.Second
	if s := c.QueryInt("espera"); s > 0 && s <= 60 {
		espera = time.Duration(s) * time.Second
	}
	ctx, cancel := context.WithTimeout(c.Context(), espera)
	defer cancel()

	estados := make(chan *dto.CuadreTrabajoResponse, 1)
	cerrar, err := h.vigilante.Observar(ctx, GetUserID(c), agenciaID, fecha, func(estado *dto.CuadreTrabajoResponse) {
		select {
		case estados <- estado:
		default:
		}
	})
	if err != nil {
		return respondError(c, err)
	}
	defer cerrar()

	select {
	case estado := <-estados:
		return c.JSON(estado)
	case <-ctx.Done():
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// Semana devuelve el reporte semanal (lunes a domingo) de la agencia.
func (h *CuadreHandler) Semana(c *fiber.Ctx) error {
	agenciaID, err := agenciaAlcance(c)
	if err != nil {
		return respondError(c, err)
	}
	desde, err := parseFecha(c, "desde")
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.semana.Semana(c.Context(), GetUserID(c), agenciaID, reports.LunesDe(desde))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// agenciaAlcance valida que el actor pueda operar sobre la agencia del path.
// Taquilleras y encargadas solo acceden a su agencia asignada; admin a todas.
func agenciaAlcance(c *fiber.Ctx) (string, error) {
	agenciaID := c.Params("agenciaID")
	if agenciaID == "" {
		return "", fmt.Errorf("%w: agenciaID es requerido", domain.ErrInvalidInput)
	}
	if asignada := GetAgenciaID(c); asignada != "" && asignada != agenciaID {
		return "", fmt.Errorf("%w: agencia fuera del alcance del actor", domain.ErrForbidden)
	}
	return agenciaID, nil
}

// parseFecha lee un query param YYYY-MM-DD; sin valor usa la fecha de hoy.
func parseFecha(c *fiber.Ctx, param string) (time.Time, error) {
	raw := c.Query(param)
	if raw == "" {
		hoy := time.Now()
		return time.Date(hoy.Year(), hoy.Month(), hoy.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	fecha, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s debe ser YYYY-MM-DD", domain.ErrInvalidInput, param)
	}
	return fecha, nil
}
