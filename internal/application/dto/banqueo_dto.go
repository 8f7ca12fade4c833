package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// LineaBanqueo es la liquidación de un sistema para un cliente en una semana.
type LineaBanqueo struct {
	SistemaID string `json:"sistema_id"`
	Nombre    string `json:"nombre,omitempty"`

	VentasBs   decimal.Decimal `json:"ventas_bs"`
	VentasUSD  decimal.Decimal `json:"ventas_usd"`
	PremiosBs  decimal.Decimal `json:"premios_bs"`
	PremiosUSD decimal.Decimal `json:"premios_usd"`

	ComisionPctBs       decimal.Decimal `json:"comision_pct_bs"`
	ComisionPctUSD      decimal.Decimal `json:"comision_pct_usd"`
	ParticipacionPctBs  decimal.Decimal `json:"participacion_pct_bs"`
	ParticipacionPctUSD decimal.Decimal `json:"participacion_pct_usd"`
	LanavePctBs         decimal.Decimal `json:"lanave_pct_bs"`
	LanavePctUSD        decimal.Decimal `json:"lanave_pct_usd"`

	NetoBs           decimal.Decimal `json:"neto_bs"`
	NetoUSD          decimal.Decimal `json:"neto_usd"`
	ComisionBs       decimal.Decimal `json:"comision_bs"`
	ComisionUSD      decimal.Decimal `json:"comision_usd"`
	SubtotalBs       decimal.Decimal `json:"subtotal_bs"`
	SubtotalUSD      decimal.Decimal `json:"subtotal_usd"`
	ParticipacionBs  decimal.Decimal `json:"participacion_bs"`
	ParticipacionUSD decimal.Decimal `json:"participacion_usd"`
	LanaveBs         decimal.Decimal `json:"lanave_bs"`
	LanaveUSD        decimal.Decimal `json:"lanave_usd"`
	FinalBs          decimal.Decimal `json:"final_bs"`
	FinalUSD         decimal.Decimal `json:"final_usd"`

	PagadoBs  bool `json:"pagado_bs"`
	PagadoUSD bool `json:"pagado_usd"`
}

// LiquidacionSemanaResponse es la liquidación banqueo de un cliente en una semana.
type LiquidacionSemanaResponse struct {
	ClienteID   string         `json:"cliente_id"`
	SemanaDesde time.Time      `json:"semana_desde"`
	Lineas      []LineaBanqueo `json:"lineas"`

	TotalVentasBs        decimal.Decimal `json:"total_ventas_bs"`
	TotalVentasUSD       decimal.Decimal `json:"total_ventas_usd"`
	TotalPremiosBs       decimal.Decimal `json:"total_premios_bs"`
	TotalPremiosUSD      decimal.Decimal `json:"total_premios_usd"`
	TotalComisionBs      decimal.Decimal `json:"total_comision_bs"`
	TotalComisionUSD     decimal.Decimal `json:"total_comision_usd"`
	TotalParticipacionBs decimal.Decimal `json:"total_participacion_bs"`
	TotalParticipacionUSD decimal.Decimal `json:"total_participacion_usd"`
	TotalLanaveBs        decimal.Decimal `json:"total_lanave_bs"`
	TotalLanaveUSD       decimal.Decimal `json:"total_lanave_usd"`
	TotalFinalBs         decimal.Decimal `json:"total_final_bs"`
	TotalFinalUSD        decimal.Decimal `json:"total_final_usd"`
}

// MarcarPagoRequest alterna las banderas de pago de una fila de banqueo.
type MarcarPagoRequest struct {
	FilaID string `json:"fila_id"`
	Moneda string `json:"moneda"` // "BS" | "USD"
	Pagado bool   `json:"pagado"`
}
