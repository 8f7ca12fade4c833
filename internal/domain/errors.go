package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound        = errors.New("recurso no encontrado")
	ErrInvalidInput    = errors.New("entrada inválida")
	ErrDuplicate       = errors.New("recurso duplicado")
	ErrUnauthorized    = errors.New("no autorizado")
	ErrForbidden       = errors.New("acceso denegado")
	ErrConflict        = errors.New("conflicto con el estado actual")
	ErrCuadreAprobado  = errors.New("el cuadre ya fue aprobado y no admite cambios")
	ErrSinObservacion  = errors.New("rechazar un cuadre requiere una observación")
	ErrMontoRequerido  = errors.New("se requiere al menos un monto distinto de cero")
	ErrPorcentajeRango = errors.New("el porcentaje debe estar entre 0 y 100")
)
