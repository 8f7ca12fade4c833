package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Ajuste es el bloque de ajuste manual de un cierre o cuadre:
// monto adicional por moneda, nota, y si el excedente USD se aplica al cuadre en Bs.
type Ajuste struct {
	MontoBs              decimal.Decimal `json:"monto_bs"`
	MontoUSD             decimal.Decimal `json:"monto_usd"`
	Nota                 string          `json:"nota"`
	AplicarExcedenteUSD  bool            `json:"aplicar_excedente_usd"`
}

// CierreDiario es el cierre de caja de una sesión de taquillera en una fecha.
// Una vez confirmado deja de editarse desde la taquilla, pero sigue siendo
// actualizable hasta que un cuadre revisado lo sustituye.
type CierreDiario struct {
	ID               string
	AgenciaID        string
	SesionID         string
	UsuarioID        string
	Fecha            time.Time
	EfectivoBs       decimal.Decimal
	EfectivoUSD      decimal.Decimal
	TasaCambio       decimal.Decimal
	Notas            string
	Ajuste           Ajuste
	CierreConfirmado bool
	EstadoRevision   string // espejo del estado del cuadre consolidado de su agencia/fecha
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
