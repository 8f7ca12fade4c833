package cuadre

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/lanave/agencias-api/internal/application/dto"
	domaincuadre "github.com/lanave/agencias-api/internal/domain/cuadre"
	"github.com/lanave/agencias-api/internal/domain/entity"
	"github.com/lanave/agencias-api/internal/domain/money"
	"github.com/lanave/agencias-api/internal/domain/repository"
)

// Totales es el resultado del agregador: totales por categoría en ambas
// monedas más las listas de detalle para drill-down. Correr el agregador dos
// veces sobre los mismos datos produce exactamente los mismos totales.
type Totales struct {
	PorSistema []dto.FilaSistema

	Ventas  money.Par
	Premios money.Par
	Gastos  money.Par // solo gastos; deudas van aparte
	Deudas  money.Par // solo deudas no pagadas

	PagoMovilRecibido decimal.Decimal
	PagoMovilPagado   decimal.Decimal
	PuntoVenta        decimal.Decimal

	PremiosPendientes money.Par // solo no pagados

	// Detalle para drill-down. Los pagados siguen visibles aunque no sumen.
	GastosOperativos  []*entity.Transaccion
	GastosDeuda       []*entity.Transaccion
	DeudasDetalle     []*entity.Transaccion
	PendientesAbiertos []*entity.Transaccion
	PendientesPagados  []*entity.Transaccion

	// Agregado de cierres de sesión.
	EfectivoBs   decimal.Decimal
	EfectivoUSD  decimal.Decimal
	TasaAgregada decimal.Decimal // mayor tasa de cierre por encima del placeholder; cero si ninguna
	Notas        string
}

// Aggregator pliega transacciones crudas y cierres de sesión en totales por
// día o por semana, por agencia o por cliente banqueo.
type Aggregator struct {
	transRepo   repository.TransaccionRepository
	cierreRepo  repository.CierreRepository
	sistemaRepo repository.SistemaRepository
}

// NewAggregator construye el agregador.
func NewAggregator(transRepo repository.TransaccionRepository, cierreRepo repository.CierreRepository, sistemaRepo repository.SistemaRepository) *Aggregator {
	return &Aggregator{transRepo: transRepo, cierreRepo: cierreRepo, sistemaRepo: sistemaRepo}
}

// AgregarDia agrega las transacciones de una agencia en una fecha.
// sesionIDs vacío incluye todas las sesiones del día.
func (a *Aggregator) AgregarDia(ctx context.Context, agenciaID string, fecha time.Time, sesionIDs []string) (*Totales, error) {
	return a.agregar(ctx, repository.FiltroTransacciones{
		AgenciaID: agenciaID,
		Desde:     fecha,
		Hasta:     fecha,
		SesionIDs: sesionIDs,
	})
}

// AgregarSemana agrega las transacciones de una agencia en la semana que
// inicia en semanaDesde (lunes).
func (a *Aggregator) AgregarSemana(ctx context.Context, agenciaID string, semanaDesde time.Time) (*Totales, error) {
	return a.agregar(ctx, repository.FiltroTransacciones{
		AgenciaID: agenciaID,
		Desde:     semanaDesde,
		Hasta:     semanaDesde.AddDate(0, 0, 6),
	})
}

// AgregarSemanaCliente agrega las transacciones banqueo de un cliente en la semana.
func (a *Aggregator) AgregarSemanaCliente(ctx context.Context, clienteID string, semanaDesde time.Time) (*Totales, error) {
	return a.agregar(ctx, repository.FiltroTransacciones{
		ClienteID: clienteID,
		Desde:     semanaDesde,
		Hasta:     semanaDesde.AddDate(0, 0, 6),
	})
}

func (a *Aggregator) agregar(ctx context.Context, filtro repository.FiltroTransacciones) (*Totales, error) {
	trans, err := a.transRepo.ListBy(ctx, filtro)
	if err != nil {
		return nil, fmt.Errorf("listar transacciones: %w", err)
	}

	sistemas, err := a.sistemaRepo.ListActivos(ctx)
	if err != nil {
		return nil, fmt.Errorf("listar sistemas: %w", err)
	}
	porID := make(map[string]*entity.SistemaLoteria, len(sistemas))
	for _, s := range sistemas {
		porID[s.ID] = s
	}

	t := &Totales{
		Ventas:            money.ZeroPar(),
		Premios:           money.ZeroPar(),
		Gastos:            money.ZeroPar(),
		Deudas:            money.ZeroPar(),
		PremiosPendientes: money.ZeroPar(),
	}
	filas := make(map[string]*dto.FilaSistema)

	filaDe := func(sistemaID string) *dto.FilaSistema {
		f, ok := filas[sistemaID]
		if !ok {
			f = &dto.FilaSistema{SistemaID: sistemaID}
			if s, ok := porID[sistemaID]; ok {
				f.Nombre = s.Nombre
				// Un sistema con subcategorías no es hoja: su fila es
				// informativa y sus montos jamás entran a los totales.
				f.SoloLectura = s.TieneSubcategorias
			}
			filas[sistemaID] = f
		}
		return f
	}

	for _, tr := range trans {
		// El detalle de la encargada reexpresa filas crudas ya contadas:
		// sumarlo aquí duplicaría las ventas para cualquier otro actor.
		if tr.EsDetalleEncargada() {
			continue
		}
		par := money.Par{Bs: tr.MontoBs, USD: tr.MontoUSD}
		switch tr.Tipo {
		case entity.TipoVenta:
			f := filaDe(tr.SistemaID)
			if f.SoloLectura {
				f.MontoPadreBs = f.MontoPadreBs.Add(tr.MontoBs)
				f.MontoPadreUSD = f.MontoPadreUSD.Add(tr.MontoUSD)
				continue
			}
			f.VentasBs = f.VentasBs.Add(tr.MontoBs)
			f.VentasUSD = f.VentasUSD.Add(tr.MontoUSD)
			t.Ventas = t.Ventas.Add(par)
		case entity.TipoPremio:
			f := filaDe(tr.SistemaID)
			if f.SoloLectura {
				f.MontoPadreBs = f.MontoPadreBs.Add(tr.MontoBs)
				f.MontoPadreUSD = f.MontoPadreUSD.Add(tr.MontoUSD)
				continue
			}
			f.PremiosBs = f.PremiosBs.Add(tr.MontoBs)
			f.PremiosUSD = f.PremiosUSD.Add(tr.MontoUSD)
			t.Premios = t.Premios.Add(par)
		case entity.TipoGasto:
			t.Gastos = t.Gastos.Add(par)
			if tr.Categoria == entity.CategoriaDeuda {
				t.GastosDeuda = append(t.GastosDeuda, tr)
			} else {
				t.GastosOperativos = append(t.GastosOperativos, tr)
			}
		case entity.TipoDeuda:
			t.DeudasDetalle = append(t.DeudasDetalle, tr)
			if tr.EsDeudaAbierta() {
				t.Deudas = t.Deudas.Add(par)
			}
		case entity.TipoPagoMovil:
			if tr.Direccion == entity.PagoMovilPagado {
				t.PagoMovilPagado = t.PagoMovilPagado.Add(tr.MontoBs)
			} else {
				t.PagoMovilRecibido = t.PagoMovilRecibido.Add(tr.MontoBs)
			}
		case entity.TipoPuntoVenta:
			t.PuntoVenta = t.PuntoVenta.Add(tr.MontoBs)
		case entity.TipoPremioPendiente:
			if tr.EsDeudaAbierta() {
				t.PendientesAbiertos = append(t.PendientesAbiertos, tr)
				t.PremiosPendientes = t.PremiosPendientes.Add(par)
			} else {
				t.PendientesPagados = append(t.PendientesPagados, tr)
			}
		}
	}

	t.PorSistema = ordenarFilas(filas)

	// Banqueo no tiene cierres de sesión.
	if filtro.AgenciaID != "" {
		if err := a.agregarCierres(ctx, filtro, t); err != nil {
			return nil, err
		}
	}

	return t, nil
}

func (a *Aggregator) agregarCierres(ctx context.Context, filtro repository.FiltroTransacciones, t *Totales) error {
	cierres, err := a.cierreRepo.ListByAgenciaFecha(ctx, filtro.AgenciaID, filtro.Desde, filtro.Hasta)
	if err != nil {
		return fmt.Errorf("listar cierres: %w", err)
	}
	incluir := func(sesionID string) bool {
		if len(filtro.SesionIDs) == 0 {
			return true
		}
		for _, id := range filtro.SesionIDs {
			if id == sesionID {
				return true
			}
		}
		return false
	}
	for _, c := range cierres {
		if !incluir(c.SesionID) {
			continue
		}
		t.EfectivoBs = t.EfectivoBs.Add(c.EfectivoBs)
		t.EfectivoUSD = t.EfectivoUSD.Add(c.EfectivoUSD)
		// Una tasa de cierre solo cuenta si supera el placeholder: la tasa por
		// defecto no debe enmascarar datos reales.
		if c.TasaCambio.GreaterThan(domaincuadre.TasaPlaceholder) && c.TasaCambio.GreaterThan(t.TasaAgregada) {
			t.TasaAgregada = c.TasaCambio
		}
		if c.Notas != "" {
			if t.Notas != "" {
				t.Notas += "\n"
			}
			t.Notas += c.Notas
		}
	}
	return nil
}

func ordenarFilas(filas map[string]*dto.FilaSistema) []dto.FilaSistema {
	out := make([]dto.FilaSistema, 0, len(filas))
	for _, f := range filas {
		out = append(out, *f)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Nombre != out[j].Nombre {
			return out[i].Nombre < out[j].Nombre
		}
		return out[i].SistemaID < out[j].SistemaID
	})
	return out
}
