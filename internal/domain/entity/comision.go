package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// TasaComision es la configuración global de un sistema de lotería:
// porcentaje de comisión y de utilidad, duplicados por moneda.
// Ausente se trata como 0% hasta que un administrador la configura.
type TasaComision struct {
	ID           string
	SistemaID    string
	ComisionBs   Porcentaje
	ComisionUSD  Porcentaje
	UtilidadBs   Porcentaje
	UtilidadUSD  Porcentaje
	UpdatedAt    time.Time
}

// ParticipacionClienteSistema es el override por (cliente banqueo × sistema).
// Cualquier campo ausente cae al nivel siguiente de la cascada.
type ParticipacionClienteSistema struct {
	ID                      string
	ClienteID               string
	SistemaID               string
	ComisionClienteBs       Porcentaje
	ComisionClienteUSD      Porcentaje
	ParticipacionBs         Porcentaje
	ParticipacionUSD        Porcentaje
	ParticipacionLanaveBs   Porcentaje
	ParticipacionLanaveUSD  Porcentaje
	UpdatedAt               time.Time
}

// ComisionBanqueoCliente es la participación Lanave por cliente, aplicable a
// todos sus sistemas salvo override por sistema.
type ComisionBanqueoCliente struct {
	ID                     string
	ClienteID              string
	ParticipacionLanaveBs  Porcentaje
	ParticipacionLanaveUSD Porcentaje
	UpdatedAt              time.Time
}

// TransaccionBanqueo es una fila de liquidación semanal por (cliente, semana, sistema).
// Se reemplaza completa (delete-then-insert) en cada guardado de la semana;
// los porcentajes son snapshot al momento de guardar.
type TransaccionBanqueo struct {
	ID          string
	ClienteID   string
	SistemaID   string
	SemanaDesde time.Time // lunes de la semana liquidada

	VentasBs   decimal.Decimal
	VentasUSD  decimal.Decimal
	PremiosBs  decimal.Decimal
	PremiosUSD decimal.Decimal

	ComisionPctBs      decimal.Decimal
	ComisionPctUSD     decimal.Decimal
	ParticipacionPctBs decimal.Decimal
	ParticipacionPctUSD decimal.Decimal
	LanavePctBs        decimal.Decimal
	LanavePctUSD       decimal.Decimal

	PagadoBs  bool
	PagadoUSD bool

	CreatedAt time.Time
}
