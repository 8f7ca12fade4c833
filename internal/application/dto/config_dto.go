package dto

import "github.com/shopspring/decimal"

// Los porcentajes viajan como *string: nil = no configurado, "0" = override
// explícito en cero. La diferencia importa para la cascada de comisiones.
type PorcentajeOpt = *string

// TasaSistemaRequest configura la tasa global de un sistema.
type TasaSistemaRequest struct {
	ComisionBs  PorcentajeOpt `json:"comision_bs"`
	ComisionUSD PorcentajeOpt `json:"comision_usd"`
	UtilidadBs  PorcentajeOpt `json:"utilidad_bs"`
	UtilidadUSD PorcentajeOpt `json:"utilidad_usd"`
}

// ParticipacionClienteRequest configura el override de un (cliente, sistema).
type ParticipacionClienteRequest struct {
	SistemaID              string        `json:"sistema_id"`
	ComisionClienteBs      PorcentajeOpt `json:"comision_cliente_bs"`
	ComisionClienteUSD     PorcentajeOpt `json:"comision_cliente_usd"`
	ParticipacionBs        PorcentajeOpt `json:"participacion_bs"`
	ParticipacionUSD       PorcentajeOpt `json:"participacion_usd"`
	ParticipacionLanaveBs  PorcentajeOpt `json:"participacion_lanave_bs"`
	ParticipacionLanaveUSD PorcentajeOpt `json:"participacion_lanave_usd"`
}

// ParticipacionClienteResponse expone el override de un (cliente, sistema).
// Los campos nil están sin configurar y caen al siguiente nivel de la cascada.
type ParticipacionClienteResponse struct {
	SistemaID              string           `json:"sistema_id"`
	ComisionClienteBs      *decimal.Decimal `json:"comision_cliente_bs"`
	ComisionClienteUSD     *decimal.Decimal `json:"comision_cliente_usd"`
	ParticipacionBs        *decimal.Decimal `json:"participacion_bs"`
	ParticipacionUSD       *decimal.Decimal `json:"participacion_usd"`
	ParticipacionLanaveBs  *decimal.Decimal `json:"participacion_lanave_bs"`
	ParticipacionLanaveUSD *decimal.Decimal `json:"participacion_lanave_usd"`
}

// ComisionBanqueoRequest configura la participación Lanave global de un cliente.
type ComisionBanqueoRequest struct {
	ParticipacionLanaveBs  PorcentajeOpt `json:"participacion_lanave_bs"`
	ParticipacionLanaveUSD PorcentajeOpt `json:"participacion_lanave_usd"`
}
