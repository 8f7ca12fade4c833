package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de transacción registrados por las taquilleras.
const (
	TipoVenta            = "venta"
	TipoPremio           = "premio"
	TipoGasto            = "gasto"
	TipoDeuda            = "deuda"
	TipoPagoMovil        = "pago_movil"
	TipoPuntoVenta       = "punto_venta"
	TipoPremioPendiente  = "premio_pendiente"
)

// Categorías de gasto.
const (
	CategoriaGastoOperativo = "gasto_operativo"
	CategoriaDeuda          = "deuda"
	CategoriaOtro           = "otro"
)

// Direcciones de pago móvil.
const (
	PagoMovilRecibido = "recibido"
	PagoMovilPagado   = "pagado"
)

// Transaccion es un hecho inmutable registrado por una taquillera o encargada.
// Después de creada solo cambia Pagado (deudas y premios pendientes) y las
// correcciones de la encargada; nunca se edita el monto en sitio.
type Transaccion struct {
	ID          string
	AgenciaID   string
	ClienteID   string // cliente banqueo; vacío para transacciones de agencia
	SesionID    string // sesión de taquillera que la registró; vacío si la creó una encargada
	SistemaID   string // sistema de lotería; vacío para gastos/pagos sin sistema
	Fecha       time.Time
	Tipo        string
	Categoria   string // solo gastos: gasto_operativo | deuda | otro
	Direccion   string // solo pago_movil: recibido | pagado
	MontoBs     decimal.Decimal
	MontoUSD    decimal.Decimal
	Pagado      bool // solo deudas y premios pendientes
	Descripcion string
	CreadaPor   string
	CreatedAt   time.Time
}

// EsDeudaAbierta indica si la transacción debe sumarse a los totales:
// deudas y premios pendientes entran solo mientras Pagado es false.
func (t Transaccion) EsDeudaAbierta() bool {
	return (t.Tipo == TipoDeuda || t.Tipo == TipoPremioPendiente) && !t.Pagado
}

// EsDetalleEncargada indica si la fila es detalle consolidado guardado por una
// encargada: venta o premio sin sesión de taquillera ni cliente banqueo. Esas
// filas reexpresan transacciones crudas ya registradas; las consume el
// reconciliador, nunca la base agregada.
func (t Transaccion) EsDetalleEncargada() bool {
	return t.SesionID == "" && t.ClienteID == "" &&
		(t.Tipo == TipoVenta || t.Tipo == TipoPremio)
}
