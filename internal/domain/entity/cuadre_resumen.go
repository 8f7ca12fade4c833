package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de revisión de un cuadre.
const (
	RevisionPendiente = "pendiente"
	RevisionAprobado  = "aprobado"
	RevisionRechazado = "rechazado"
)

// CuadreResumen es el resumen de cuadre de una agencia en una fecha.
// Existe en dos variantes según SesionID: por sesión de taquillera
// (SesionID no vacío) o consolidado por la encargada (SesionID vacío).
// Invariante: a lo sumo un consolidado por (agencia, fecha); el guardado
// siempre es find-or-create por esa clave, nunca insert ciego.
type CuadreResumen struct {
	ID        string
	AgenciaID string
	SesionID  string // vacío = consolidado de agencia
	Fecha     time.Time

	VentasBs     decimal.Decimal
	VentasUSD    decimal.Decimal
	PremiosBs    decimal.Decimal
	PremiosUSD   decimal.Decimal
	GastosBs     decimal.Decimal
	GastosUSD    decimal.Decimal
	DeudasBs     decimal.Decimal
	DeudasUSD    decimal.Decimal
	PagoMovilRecibido decimal.Decimal
	PagoMovilPagado   decimal.Decimal
	PuntoVenta        decimal.Decimal

	EfectivoBs           decimal.Decimal
	EfectivoUSD          decimal.Decimal
	PremiosPendientesBs  decimal.Decimal
	PremiosPendientesUSD decimal.Decimal
	TasaCambio           decimal.Decimal
	Ajuste               Ajuste

	EstadoRevision string // pendiente | aprobado | rechazado
	RevisadoPor    string
	RevisadoEn     *time.Time
	Observaciones  string // motivo de rechazo visible a la taquillera

	CreatedAt time.Time
	UpdatedAt time.Time
}

// EsConsolidado indica si el resumen es el consolidado de agencia (sin sesión).
func (c CuadreResumen) EsConsolidado() bool {
	return c.SesionID == ""
}

// Aprobado indica si el cuadre está cerrado: todos los campos pasan a solo lectura.
func (c CuadreResumen) Aprobado() bool {
	return c.EstadoRevision == RevisionAprobado
}
