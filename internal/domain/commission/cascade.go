package commission

import (
	"github.com/shopspring/decimal"

	"github.com/lanave/agencias-api/internal/domain/entity"
	"github.com/lanave/agencias-api/internal/domain/money"
)

// TasasEfectivas son los porcentajes resueltos para un (sistema, cliente?):
// comisión y participación por moneda, más la participación Lanave.
type TasasEfectivas struct {
	ComisionBs       decimal.Decimal `json:"comision_bs"`
	ComisionUSD      decimal.Decimal `json:"comision_usd"`
	ParticipacionBs  decimal.Decimal `json:"participacion_bs"`
	ParticipacionUSD decimal.Decimal `json:"participacion_usd"`
	LanaveBs         decimal.Decimal `json:"lanave_bs"`
	LanaveUSD        decimal.Decimal `json:"lanave_usd"`
}

// Resolver camina la jerarquía de overrides, campo por campo (no en bloque):
//
//  1. ParticipacionClienteSistema (cliente × sistema) — lo más específico.
//  2. ComisionBanqueoCliente — solo participación Lanave, todos los sistemas del cliente.
//  3. TasaComision del sistema — defecto global.
//  4. Cero.
//
// Una fila presente con 0 es un override válido y corta la cascada; solo la
// ausencia cae al siguiente nivel (contrato de entity.Porcentaje).
// Cualquiera de los tres punteros puede ser nil (fila ausente).
func Resolver(
	clienteSistema *entity.ParticipacionClienteSistema,
	cliente *entity.ComisionBanqueoCliente,
	sistema *entity.TasaComision,
) TasasEfectivas {
	comBs, comUSD := entity.PorcentajeAusente(), entity.PorcentajeAusente()
	parBs, parUSD := entity.PorcentajeAusente(), entity.PorcentajeAusente()
	lanBs, lanUSD := entity.PorcentajeAusente(), entity.PorcentajeAusente()

	if clienteSistema != nil {
		comBs = clienteSistema.ComisionClienteBs
		comUSD = clienteSistema.ComisionClienteUSD
		parBs = clienteSistema.ParticipacionBs
		parUSD = clienteSistema.ParticipacionUSD
		lanBs = clienteSistema.ParticipacionLanaveBs
		lanUSD = clienteSistema.ParticipacionLanaveUSD
	}
	if cliente != nil {
		lanBs = lanBs.ODefecto(cliente.ParticipacionLanaveBs)
		lanUSD = lanUSD.ODefecto(cliente.ParticipacionLanaveUSD)
	}
	if sistema != nil {
		comBs = comBs.ODefecto(sistema.ComisionBs)
		comUSD = comUSD.ODefecto(sistema.ComisionUSD)
		parBs = parBs.ODefecto(sistema.UtilidadBs)
		parUSD = parUSD.ODefecto(sistema.UtilidadUSD)
	}

	return TasasEfectivas{
		ComisionBs:       comBs.Valor(),
		ComisionUSD:      comUSD.Valor(),
		ParticipacionBs:  parBs.Valor(),
		ParticipacionUSD: parUSD.Valor(),
		LanaveBs:         lanBs.Valor(),
		LanaveUSD:        lanUSD.Valor(),
	}
}

// LineaLiquidacion es el resultado de liquidar un sistema para un cliente.
type LineaLiquidacion struct {
	SistemaID string
	Tasas     TasasEfectivas

	VentasBs   decimal.Decimal
	VentasUSD  decimal.Decimal
	PremiosBs  decimal.Decimal
	PremiosUSD decimal.Decimal

	NetoBs   decimal.Decimal
	NetoUSD  decimal.Decimal
	ComisionBs  decimal.Decimal
	ComisionUSD decimal.Decimal
	SubtotalBs  decimal.Decimal
	SubtotalUSD decimal.Decimal
	ParticipacionBs  decimal.Decimal
	ParticipacionUSD decimal.Decimal
	LanaveBs   decimal.Decimal
	LanaveUSD  decimal.Decimal
	FinalBs    decimal.Decimal
	FinalUSD   decimal.Decimal
}

// Liquidar computa la línea de un sistema:
// neto = ventas - premios; comisión = ventas × tasa; subtotal = neto - comisión;
// participación = subtotal × tasa; lanave = subtotal × tasa; final = subtotal - participación.
func Liquidar(sistemaID string, ventasBs, ventasUSD, premiosBs, premiosUSD decimal.Decimal, t TasasEfectivas) LineaLiquidacion {
	l := LineaLiquidacion{
		SistemaID:  sistemaID,
		Tasas:      t,
		VentasBs:   ventasBs,
		VentasUSD:  ventasUSD,
		PremiosBs:  premiosBs,
		PremiosUSD: premiosUSD,
	}

	l.NetoBs = ventasBs.Sub(premiosBs)
	l.NetoUSD = ventasUSD.Sub(premiosUSD)
	l.ComisionBs = money.Porcentaje(ventasBs, t.ComisionBs)
	l.ComisionUSD = money.Porcentaje(ventasUSD, t.ComisionUSD)
	l.SubtotalBs = l.NetoBs.Sub(l.ComisionBs)
	l.SubtotalUSD = l.NetoUSD.Sub(l.ComisionUSD)
	l.ParticipacionBs = money.Porcentaje(l.SubtotalBs, t.ParticipacionBs)
	l.ParticipacionUSD = money.Porcentaje(l.SubtotalUSD, t.ParticipacionUSD)
	l.LanaveBs = money.Porcentaje(l.SubtotalBs, t.LanaveBs)
	l.LanaveUSD = money.Porcentaje(l.SubtotalUSD, t.LanaveUSD)
	l.FinalBs = l.SubtotalBs.Sub(l.ParticipacionBs)
	l.FinalUSD = l.SubtotalUSD.Sub(l.ParticipacionUSD)

	return l
}

// TotalSemana acumula las líneas de todos los sistemas de un cliente en la semana.
type TotalSemana struct {
	VentasBs, VentasUSD             decimal.Decimal
	PremiosBs, PremiosUSD           decimal.Decimal
	ComisionBs, ComisionUSD         decimal.Decimal
	ParticipacionBs, ParticipacionUSD decimal.Decimal
	LanaveBs, LanaveUSD             decimal.Decimal
	FinalBs, FinalUSD               decimal.Decimal
}

// Sumar acumula líneas de liquidación en el total semanal del cliente.
func Sumar(lineas []LineaLiquidacion) TotalSemana {
	var t TotalSemana
	for _, l := range lineas {
		t.VentasBs = t.VentasBs.Add(l.VentasBs)
		t.VentasUSD = t.VentasUSD.Add(l.VentasUSD)
		t.PremiosBs = t.PremiosBs.Add(l.PremiosBs)
		t.PremiosUSD = t.PremiosUSD.Add(l.PremiosUSD)
		t.ComisionBs = t.ComisionBs.Add(l.ComisionBs)
		t.ComisionUSD = t.ComisionUSD.Add(l.ComisionUSD)
		t.ParticipacionBs = t.ParticipacionBs.Add(l.ParticipacionBs)
		t.ParticipacionUSD = t.ParticipacionUSD.Add(l.ParticipacionUSD)
		t.LanaveBs = t.LanaveBs.Add(l.LanaveBs)
		t.LanaveUSD = t.LanaveUSD.Add(l.LanaveUSD)
		t.FinalBs = t.FinalBs.Add(l.FinalBs)
		t.FinalUSD = t.FinalUSD.Add(l.FinalUSD)
	}
	return t
}
