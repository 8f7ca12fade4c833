package cuadre

import (
	"github.com/shopspring/decimal"

	"github.com/lanave/agencias-api/internal/domain/entity"
)

// Tolerancias por defecto para considerar un cuadre balanceado.
// Son configurables vía CUADRE_TOLERANCIA_BS / CUADRE_TOLERANCIA_USD.
var (
	ToleranciaBsDefecto  = decimal.NewFromInt(100)
	ToleranciaUSDDefecto = decimal.NewFromInt(5)
)

// TasaPlaceholder es la tasa de cambio por defecto del despliegue de referencia.
// Nunca se considera "fijada explícitamente" al reconciliar fuentes.
var TasaPlaceholder = decimal.RequireFromString("36.00")

// Entrada agrupa los insumos del cálculo de cuadre. Todos los montos de deudas
// y gastos llegan ya filtrados a no pagados (invariante del agregador).
type Entrada struct {
	VentasBs   decimal.Decimal
	VentasUSD  decimal.Decimal
	PremiosBs  decimal.Decimal
	PremiosUSD decimal.Decimal
	GastosBs   decimal.Decimal
	GastosUSD  decimal.Decimal
	DeudasBs   decimal.Decimal
	DeudasUSD  decimal.Decimal

	PagoMovilRecibido decimal.Decimal // solo Bs: la banca USD no está modelada
	PagoMovilPagado   decimal.Decimal
	PuntoVenta        decimal.Decimal

	EfectivoBs  decimal.Decimal
	EfectivoUSD decimal.Decimal

	PremiosPendientesBs  decimal.Decimal
	PremiosPendientesUSD decimal.Decimal

	Ajuste     entity.Ajuste
	TasaCambio decimal.Decimal
}

// Resultado es el reporte completo del cuadre de un día (o semana).
type Resultado struct {
	CuadreBs   decimal.Decimal
	CuadreUSD  decimal.Decimal
	TotalBanco decimal.Decimal

	ExcedenteUSD          decimal.Decimal
	ExcedenteUSDAplicado  bool
	ExcedenteUSDConvertido decimal.Decimal // ExcedenteUSD * tasa cuando está aplicado; cero si no

	SumatoriaBs  decimal.Decimal
	SumatoriaUSD decimal.Decimal

	DiferenciaBs  decimal.Decimal
	DiferenciaUSD decimal.Decimal

	Balanceado bool
}

// Tolerancias son las bandas que definen "balanceado".
type Tolerancias struct {
	Bs  decimal.Decimal
	USD decimal.Decimal
}

// ToleranciasDefecto devuelve las bandas del despliegue de referencia (100 Bs / 5 USD).
func ToleranciasDefecto() Tolerancias {
	return Tolerancias{Bs: ToleranciaBsDefecto, USD: ToleranciaUSDDefecto}
}

// Calcular es la función pura del cuadre: sin I/O, sin redondeo intermedio.
//
// El excedente USD es el efectivo USD por encima de la obligación USD del día.
// La obligación incluye los premios pendientes USD: se restan ANTES de calcular
// el excedente, tanto en la vista diaria como en la semanal (una sola regla;
// ambas vistas pasan por esta función).
func Calcular(in Entrada, tol Tolerancias) Resultado {
	var r Resultado

	r.CuadreBs = in.VentasBs.Sub(in.PremiosBs)
	r.CuadreUSD = in.VentasUSD.Sub(in.PremiosUSD)

	r.TotalBanco = in.PagoMovilRecibido.Sub(in.PagoMovilPagado).Add(in.PuntoVenta)

	// Obligación USD del día: cuadre USD más premios pendientes USD.
	obligacionUSD := r.CuadreUSD.Add(in.PremiosPendientesUSD)
	r.ExcedenteUSD = in.EfectivoUSD.Sub(obligacionUSD)
	if r.ExcedenteUSD.IsNegative() {
		r.ExcedenteUSD = decimal.Zero
	}

	r.ExcedenteUSDAplicado = in.Ajuste.AplicarExcedenteUSD
	if r.ExcedenteUSDAplicado {
		r.ExcedenteUSDConvertido = r.ExcedenteUSD.Mul(in.TasaCambio)
	} else {
		r.ExcedenteUSDConvertido = decimal.Zero
	}

	r.SumatoriaBs = in.EfectivoBs.
		Add(r.TotalBanco).
		Sub(in.GastosBs).
		Sub(in.DeudasBs).
		Add(r.ExcedenteUSDConvertido).
		Sub(in.Ajuste.MontoBs)

	r.SumatoriaUSD = in.EfectivoUSD.
		Sub(in.GastosUSD).
		Sub(in.DeudasUSD).
		Sub(in.Ajuste.MontoUSD)

	r.DiferenciaBs = r.SumatoriaBs.Sub(r.CuadreBs).Sub(in.PremiosPendientesBs)
	// El ajuste USD ya está restado en la sumatoria; aquí no se resta de nuevo.
	r.DiferenciaUSD = r.SumatoriaUSD.Sub(r.CuadreUSD).Sub(in.PremiosPendientesUSD)

	r.Balanceado = r.DiferenciaBs.Abs().LessThanOrEqual(tol.Bs) &&
		r.DiferenciaUSD.Abs().LessThanOrEqual(tol.USD)

	return r
}
