package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/lanave/agencias-api/internal/domain/entity"
)

// FilaSistema es una fila editable de ventas/premios por sistema de lotería.
// MontoPadreBs/USD son los montos informativos del sistema padre cuando el
// sistema tiene subcategorías: se muestran pero nunca se suman a la fila.
type FilaSistema struct {
	SistemaID    string          `json:"sistema_id"`
	Nombre       string          `json:"nombre"`
	VentasBs     decimal.Decimal `json:"ventas_bs"`
	VentasUSD    decimal.Decimal `json:"ventas_usd"`
	PremiosBs    decimal.Decimal `json:"premios_bs"`
	PremiosUSD   decimal.Decimal `json:"premios_usd"`
	MontoPadreBs  decimal.Decimal `json:"monto_padre_bs,omitempty"`
	MontoPadreUSD decimal.Decimal `json:"monto_padre_usd,omitempty"`
	SoloLectura  bool            `json:"solo_lectura"`
}

// BorradorCuadre es el borrador local no enviado de una encargada o taquillera,
// guardado en el DraftStore bajo {actor, alcance, fecha}. Campos en cero o
// vacíos cuentan como "sin valor" al reconciliar fuentes.
type BorradorCuadre struct {
	EfectivoBs           decimal.Decimal `json:"efectivo_bs"`
	EfectivoUSD          decimal.Decimal `json:"efectivo_usd"`
	TasaCambio           decimal.Decimal `json:"tasa_cambio"`
	PremiosPendientesBs  decimal.Decimal `json:"premios_pendientes_bs"`
	PremiosPendientesUSD decimal.Decimal `json:"premios_pendientes_usd"`
	Ajuste               entity.Ajuste   `json:"ajuste"`
	Notas                string          `json:"notas"`
	Sistemas             []FilaSistema   `json:"sistemas,omitempty"`
	GuardadoEn           time.Time       `json:"guardado_en"`
}

// CuadreTrabajoResponse es el estado de trabajo reconciliado de un día:
// el valor autoritativo de cada campo editable más el reporte calculado.
type CuadreTrabajoResponse struct {
	AgenciaID string    `json:"agencia_id"`
	Fecha     time.Time `json:"fecha"`

	Sistemas []FilaSistema `json:"sistemas"`

	EfectivoBs           decimal.Decimal `json:"efectivo_bs"`
	EfectivoUSD          decimal.Decimal `json:"efectivo_usd"`
	TasaCambio           decimal.Decimal `json:"tasa_cambio"`
	PremiosPendientesBs  decimal.Decimal `json:"premios_pendientes_bs"`
	PremiosPendientesUSD decimal.Decimal `json:"premios_pendientes_usd"`
	Ajuste               entity.Ajuste   `json:"ajuste"`
	Notas                string          `json:"notas"`

	GastosBs          decimal.Decimal `json:"gastos_bs"`
	GastosUSD         decimal.Decimal `json:"gastos_usd"`
	DeudasBs          decimal.Decimal `json:"deudas_bs"`
	DeudasUSD         decimal.Decimal `json:"deudas_usd"`
	PagoMovilRecibido decimal.Decimal `json:"pago_movil_recibido"`
	PagoMovilPagado   decimal.Decimal `json:"pago_movil_pagado"`
	PuntoVenta        decimal.Decimal `json:"punto_venta"`

	Resultado ResultadoCuadre `json:"resultado"`

	EstadoRevision string `json:"estado_revision"`
	Observaciones  string `json:"observaciones,omitempty"`
	SoloLectura    bool   `json:"solo_lectura"`
}

// ResultadoCuadre es la proyección JSON del cálculo puro de cuadre.
type ResultadoCuadre struct {
	CuadreBs              decimal.Decimal `json:"cuadre_bs"`
	CuadreUSD             decimal.Decimal `json:"cuadre_usd"`
	TotalBanco            decimal.Decimal `json:"total_banco"`
	ExcedenteUSD          decimal.Decimal `json:"excedente_usd"`
	ExcedenteUSDAplicado  bool            `json:"excedente_usd_aplicado"`
	ExcedenteUSDConvertido decimal.Decimal `json:"excedente_usd_convertido"`
	SumatoriaBs           decimal.Decimal `json:"sumatoria_bs"`
	SumatoriaUSD          decimal.Decimal `json:"sumatoria_usd"`
	DiferenciaBs          decimal.Decimal `json:"diferencia_bs"`
	DiferenciaUSD         decimal.Decimal `json:"diferencia_usd"`
	Balanceado            bool            `json:"balanceado"`
}

// GuardarCuadreRequest es el cuerpo del guardado del consolidado.
// Revision vacío = guardar sin tocar el estado; "aprobar"/"rechazar"/"reenviar"
// ejecutan la transición junto con el upsert, atómicamente.
type GuardarCuadreRequest struct {
	Sistemas             []FilaSistema   `json:"sistemas"`
	EfectivoBs           decimal.Decimal `json:"efectivo_bs"`
	EfectivoUSD          decimal.Decimal `json:"efectivo_usd"`
	TasaCambio           decimal.Decimal `json:"tasa_cambio"`
	PremiosPendientesBs  decimal.Decimal `json:"premios_pendientes_bs"`
	PremiosPendientesUSD decimal.Decimal `json:"premios_pendientes_usd"`
	Ajuste               entity.Ajuste   `json:"ajuste"`
	Notas                string          `json:"notas"`

	Revision    string `json:"revision,omitempty"`
	Observacion string `json:"observacion,omitempty"`
}

// MarcarPagoTransaccionRequest alterna la bandera de pago de una deuda o un
// premio pendiente; la fila sale o vuelve a entrar a los totales del día.
type MarcarPagoTransaccionRequest struct {
	TransaccionID string `json:"transaccion_id"`
	Pagado        bool   `json:"pagado"`
}
