package cuadre

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/lanave/agencias-api/internal/application/dto"
	domaincuadre "github.com/lanave/agencias-api/internal/domain/cuadre"
	"github.com/lanave/agencias-api/internal/domain/entity"
	"github.com/lanave/agencias-api/internal/domain/repository"
)

// Reconciler determina el valor autoritativo de cada campo editable del
// cuadre a partir de hasta cuatro fuentes, resueltas campo por campo:
//
//  1. Día aprobado: el valor confirmado manda y todo es solo lectura.
//  2. Borrador local con valor no vacío/no cero: protege trabajo sin guardar.
//  3. Valor confirmado no vacío/no cero del consolidado persistido.
//  4. Base agregada de transacciones crudas (o cero).
//
// La tasa de cambio tiene regla propia: el placeholder nunca cuenta como
// "fijada explícitamente" (ver resolverTasa).
type Reconciler struct {
	agg        *Aggregator
	cuadreRepo repository.CuadreRepository
	transRepo  repository.TransaccionRepository
	drafts     DraftStore
	tol        domaincuadre.Tolerancias
}

// NewReconciler construye el reconciliador.
func NewReconciler(agg *Aggregator, cuadreRepo repository.CuadreRepository, transRepo repository.TransaccionRepository, drafts DraftStore, tol domaincuadre.Tolerancias) *Reconciler {
	return &Reconciler{agg: agg, cuadreRepo: cuadreRepo, transRepo: transRepo, drafts: drafts, tol: tol}
}

// EstadoTrabajo reconstruye el estado de trabajo de una agencia/fecha para un
// actor: borrador local primero (lectura síncrona), luego datos remotos, y la
// precedencia por campo de arriba.
func (r *Reconciler) EstadoTrabajo(ctx context.Context, actorID, agenciaID string, fecha time.Time) (*dto.CuadreTrabajoResponse, error) {
	// El borrador se lee antes de pedir datos remotos.
	borrador, err := r.drafts.Get(ctx, ClaveBorradorDia(actorID, agenciaID, fecha))
	if err != nil {
		return nil, fmt.Errorf("leer borrador: %w", err)
	}

	confirmado, err := r.cuadreRepo.GetConsolidado(ctx, agenciaID, fecha)
	if err != nil {
		return nil, fmt.Errorf("consultar consolidado: %w", err)
	}

	base, err := r.agg.AgregarDia(ctx, agenciaID, fecha, nil)
	if err != nil {
		return nil, err
	}

	aprobado := confirmado != nil && confirmado.Aprobado()

	// Filas de detalle ya guardadas por la encargada para esta agencia/fecha.
	// En un día aprobado manda el detalle de quien lo guardó, sea quien sea el
	// actor que consulta.
	filtroDetalle := repository.FiltroTransacciones{
		AgenciaID: agenciaID,
		ActorID:   actorID,
		Desde:     fecha,
		Hasta:     fecha,
	}
	if aprobado {
		filtroDetalle.ActorID = ""
	}
	listado, err := r.transRepo.ListBy(ctx, filtroDetalle)
	if err != nil {
		return nil, fmt.Errorf("listar detalle de encargada: %w", err)
	}
	detalleEncargada := soloDetalle(listado)

	resp := &dto.CuadreTrabajoResponse{
		AgenciaID:      agenciaID,
		Fecha:          fecha,
		EstadoRevision: entity.RevisionPendiente,
		SoloLectura:    aprobado,
	}
	if confirmado != nil {
		resp.EstadoRevision = confirmado.EstadoRevision
		resp.Observaciones = confirmado.Observaciones
	}

	resp.Sistemas = r.resolverSistemas(aprobado, borrador, detalleEncargada, base)
	r.resolverCampos(resp, aprobado, confirmado, borrador, base)

	resp.GastosBs = base.Gastos.Bs
	resp.GastosUSD = base.Gastos.USD
	resp.DeudasBs = base.Deudas.Bs
	resp.DeudasUSD = base.Deudas.USD
	resp.PagoMovilRecibido = base.PagoMovilRecibido
	resp.PagoMovilPagado = base.PagoMovilPagado
	resp.PuntoVenta = base.PuntoVenta

	resultado := domaincuadre.Calcular(r.entrada(resp, aprobado, confirmado), r.tol)
	resp.Resultado = proyectar(resultado)

	return resp, nil
}

// resolverSistemas aplica la precedencia a las filas por sistema en bloque de
// fuente (aprobado > borrador no vacío > detalle guardado > base agregada),
// porque una fila es la unidad editable, no sus celdas.
func (r *Reconciler) resolverSistemas(aprobado bool, borrador *dto.BorradorCuadre, detalle []*entity.Transaccion, base *Totales) []dto.FilaSistema {
	if !aprobado && borrador != nil && len(borrador.Sistemas) > 0 {
		return borrador.Sistemas
	}
	if len(detalle) > 0 {
		return filasDesdeDetalle(detalle, base)
	}
	return base.PorSistema
}

func (r *Reconciler) resolverCampos(resp *dto.CuadreTrabajoResponse, aprobado bool, confirmado *entity.CuadreResumen, borrador *dto.BorradorCuadre, base *Totales) {
	var confEfBs, confEfUSD, confTasa, confPPBs, confPPUSD decimal.Decimal
	var confAjuste entity.Ajuste
	if confirmado != nil {
		confEfBs, confEfUSD = confirmado.EfectivoBs, confirmado.EfectivoUSD
		confTasa = confirmado.TasaCambio
		confPPBs, confPPUSD = confirmado.PremiosPendientesBs, confirmado.PremiosPendientesUSD
		confAjuste = confirmado.Ajuste
	}

	var borEfBs, borEfUSD, borTasa, borPPBs, borPPUSD decimal.Decimal
	var borAjuste entity.Ajuste
	var borNotas string
	if borrador != nil {
		borEfBs, borEfUSD = borrador.EfectivoBs, borrador.EfectivoUSD
		borTasa = borrador.TasaCambio
		borPPBs, borPPUSD = borrador.PremiosPendientesBs, borrador.PremiosPendientesUSD
		borAjuste = borrador.Ajuste
		borNotas = borrador.Notas
	}

	resp.EfectivoBs = resolverDecimal(aprobado, confEfBs, borEfBs, base.EfectivoBs)
	resp.EfectivoUSD = resolverDecimal(aprobado, confEfUSD, borEfUSD, base.EfectivoUSD)
	resp.PremiosPendientesBs = resolverDecimal(aprobado, confPPBs, borPPBs, base.PremiosPendientes.Bs)
	resp.PremiosPendientesUSD = resolverDecimal(aprobado, confPPUSD, borPPUSD, base.PremiosPendientes.USD)
	resp.TasaCambio = resolverTasa(aprobado, confTasa, borTasa, base.TasaAgregada)

	switch {
	case aprobado:
		resp.Ajuste = confAjuste
	case borrador != nil && !ajusteVacio(borAjuste):
		resp.Ajuste = borAjuste
	case confirmado != nil && !ajusteVacio(confAjuste):
		resp.Ajuste = confAjuste
	}

	switch {
	case aprobado:
		resp.Notas = ""
	case borNotas != "":
		resp.Notas = borNotas
	default:
		resp.Notas = base.Notas
	}
}

// resolverDecimal aplica la precedencia general a un campo numérico.
// Cero cuenta como "sin valor" en borrador y confirmado; el valor explícito
// en cero no es un caso de estos campos (a diferencia de los porcentajes).
func resolverDecimal(aprobado bool, confirmado, borrador, base decimal.Decimal) decimal.Decimal {
	if aprobado {
		return confirmado
	}
	if !borrador.IsZero() {
		return borrador
	}
	if !confirmado.IsZero() {
		return confirmado
	}
	return base
}

// resolverTasa aplica la regla especial de la tasa de cambio:
//
//   - día aprobado: la tasa confirmada manda, sea cual sea;
//   - el placeholder (36.00) nunca cuenta como "fijada explícitamente";
//   - una tasa agregada de taquilla mayor que el placeholder le gana al
//     placeholder, pero una confirmada distinta del placeholder le gana a la
//     agregada por el orden normal.
func resolverTasa(aprobado bool, confirmada, borrador, agregada decimal.Decimal) decimal.Decimal {
	placeholder := domaincuadre.TasaPlaceholder
	if aprobado {
		if confirmada.IsZero() {
			return placeholder
		}
		return confirmada
	}
	if !borrador.IsZero() && !borrador.Equal(placeholder) {
		return borrador
	}
	if !confirmada.IsZero() && !confirmada.Equal(placeholder) {
		return confirmada
	}
	if agregada.GreaterThan(placeholder) {
		return agregada
	}
	return placeholder
}

func ajusteVacio(a entity.Ajuste) bool {
	return a.MontoBs.IsZero() && a.MontoUSD.IsZero() && a.Nota == "" && !a.AplicarExcedenteUSD
}

// filasDesdeDetalle reconstruye las filas por sistema desde el detalle
// guardado por la encargada, conservando los montos informativos del padre
// que solo la base agregada conoce.
func filasDesdeDetalle(detalle []*entity.Transaccion, base *Totales) []dto.FilaSistema {
	filas := make(map[string]*dto.FilaSistema)
	for _, tr := range detalle {
		f, ok := filas[tr.SistemaID]
		if !ok {
			f = &dto.FilaSistema{SistemaID: tr.SistemaID}
			filas[tr.SistemaID] = f
		}
		switch tr.Tipo {
		case entity.TipoVenta:
			f.VentasBs = f.VentasBs.Add(tr.MontoBs)
			f.VentasUSD = f.VentasUSD.Add(tr.MontoUSD)
		case entity.TipoPremio:
			f.PremiosBs = f.PremiosBs.Add(tr.MontoBs)
			f.PremiosUSD = f.PremiosUSD.Add(tr.MontoUSD)
		}
	}
	for _, fb := range base.PorSistema {
		if f, ok := filas[fb.SistemaID]; ok {
			f.Nombre = fb.Nombre
			f.MontoPadreBs = fb.MontoPadreBs
			f.MontoPadreUSD = fb.MontoPadreUSD
			f.SoloLectura = fb.SoloLectura
		}
	}
	return ordenarFilas(filas)
}

// soloDetalle descarta las filas crudas de sesión; el detalle de la encargada
// son las filas sin sesión que escribe ReplaceDetalle.
func soloDetalle(trans []*entity.Transaccion) []*entity.Transaccion {
	var out []*entity.Transaccion
	for _, t := range trans {
		if t.EsDetalleEncargada() {
			out = append(out, t)
		}
	}
	return out
}

// entrada arma la entrada del cálculo puro con los valores ya reconciliados.
// En un día aprobado las ventas y premios salen del consolidado confirmado:
// el resultado mostrado es el que se aprobó, digan lo que digan hoy las
// fuentes vivas.
func (r *Reconciler) entrada(resp *dto.CuadreTrabajoResponse, aprobado bool, confirmado *entity.CuadreResumen) domaincuadre.Entrada {
	in := domaincuadre.Entrada{
		GastosBs:             resp.GastosBs,
		GastosUSD:            resp.GastosUSD,
		DeudasBs:             resp.DeudasBs,
		DeudasUSD:            resp.DeudasUSD,
		PagoMovilRecibido:    resp.PagoMovilRecibido,
		PagoMovilPagado:      resp.PagoMovilPagado,
		PuntoVenta:           resp.PuntoVenta,
		EfectivoBs:           resp.EfectivoBs,
		EfectivoUSD:          resp.EfectivoUSD,
		PremiosPendientesBs:  resp.PremiosPendientesBs,
		PremiosPendientesUSD: resp.PremiosPendientesUSD,
		Ajuste:               resp.Ajuste,
		TasaCambio:           resp.TasaCambio,
	}
	if aprobado && confirmado != nil {
		in.VentasBs, in.VentasUSD = confirmado.VentasBs, confirmado.VentasUSD
		in.PremiosBs, in.PremiosUSD = confirmado.PremiosBs, confirmado.PremiosUSD
		return in
	}
	for _, f := range resp.Sistemas {
		if f.SoloLectura {
			continue
		}
		in.VentasBs = in.VentasBs.Add(f.VentasBs)
		in.VentasUSD = in.VentasUSD.Add(f.VentasUSD)
		in.PremiosBs = in.PremiosBs.Add(f.PremiosBs)
		in.PremiosUSD = in.PremiosUSD.Add(f.PremiosUSD)
	}
	return in
}

func proyectar(r domaincuadre.Resultado) dto.ResultadoCuadre {
	return dto.ResultadoCuadre{
		CuadreBs:               r.CuadreBs,
		CuadreUSD:              r.CuadreUSD,
		TotalBanco:             r.TotalBanco,
		ExcedenteUSD:           r.ExcedenteUSD,
		ExcedenteUSDAplicado:   r.ExcedenteUSDAplicado,
		ExcedenteUSDConvertido: r.ExcedenteUSDConvertido,
		SumatoriaBs:            r.SumatoriaBs,
		SumatoriaUSD:           r.SumatoriaUSD,
		DiferenciaBs:           r.DiferenciaBs,
		DiferenciaUSD:          r.DiferenciaUSD,
		Balanceado:             r.Balanceado,
	}
}
