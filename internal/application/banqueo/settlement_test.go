package banqueo_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appbanqueo "github.com/lanave/agencias-api/internal/application/banqueo"
	appcuadre "github.com/lanave/agencias-api/internal/application/cuadre"
	"github.com/lanave/agencias-api/internal/application/dto"
	"github.com/lanave/agencias-api/internal/domain"
	"github.com/lanave/agencias-api/internal/domain/entity"
	"github.com/lanave/agencias-api/internal/domain/repository"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

const clienteTest = "cli-1"

// Lunes.
var semana = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria de los puertos que usa la liquidación.
// ──────────────────────────────────────────────────────────────────────────────

type fakeTransRepo struct {
	trans []*entity.Transaccion
}

func (r *fakeTransRepo) Create(_ context.Context, t *entity.Transaccion) error {
	r.trans = append(r.trans, t)
	return nil
}

func (r *fakeTransRepo) ListBy(_ context.Context, f repository.FiltroTransacciones) ([]*entity.Transaccion, error) {
	var out []*entity.Transaccion
	for _, t := range r.trans {
		if f.ClienteID != "" && t.ClienteID != f.ClienteID {
			continue
		}
		if f.AgenciaID != "" && t.AgenciaID != f.AgenciaID {
			continue
		}
		if t.Fecha.Before(f.Desde) || t.Fecha.After(f.Hasta) {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (r *fakeTransRepo) MarcarPagado(_ context.Context, _ string, _ bool) error { return nil }

func (r *fakeTransRepo) ReplaceDetalle(_ context.Context, _ string, _ time.Time, _ string, _ []*entity.Transaccion) error {
	return nil
}

// El flujo banqueo nunca toca cierres de sesión.
type fakeCierreRepo struct{}

func (fakeCierreRepo) Upsert(_ context.Context, _ *entity.CierreDiario) error { return nil }
func (fakeCierreRepo) ListByAgenciaFecha(_ context.Context, _ string, _, _ time.Time) ([]*entity.CierreDiario, error) {
	return nil, nil
}
func (fakeCierreRepo) GetBySesionFecha(_ context.Context, _ string, _ time.Time) (*entity.CierreDiario, error) {
	return nil, nil
}
func (fakeCierreRepo) MarcarRevision(_ context.Context, _ string, _ time.Time, _ string) error {
	return nil
}

type fakeSistemaRepo struct {
	sistemas []*entity.SistemaLoteria
}

func (r *fakeSistemaRepo) GetByID(_ context.Context, id string) (*entity.SistemaLoteria, error) {
	for _, s := range r.sistemas {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeSistemaRepo) ListActivos(_ context.Context) ([]*entity.SistemaLoteria, error) {
	return r.sistemas, nil
}

func (r *fakeSistemaRepo) ListSubcategorias(_ context.Context, padreID string) ([]*entity.SistemaLoteria, error) {
	var out []*entity.SistemaLoteria
	for _, s := range r.sistemas {
		if s.PadreID == padreID {
			out = append(out, s)
		}
	}
	return out, nil
}

type fakeComisionRepo struct {
	tasas           map[string]*entity.TasaComision
	participaciones map[string]*entity.ParticipacionClienteSistema // clienteID|sistemaID
	banqueo         map[string]*entity.ComisionBanqueoCliente
}

func nuevoFakeComisionRepo() *fakeComisionRepo {
	return &fakeComisionRepo{
		tasas:           map[string]*entity.TasaComision{},
		participaciones: map[string]*entity.ParticipacionClienteSistema{},
		banqueo:         map[string]*entity.ComisionBanqueoCliente{},
	}
}

func (r *fakeComisionRepo) GetTasaSistema(_ context.Context, sistemaID string) (*entity.TasaComision, error) {
	return r.tasas[sistemaID], nil
}

func (r *fakeComisionRepo) UpsertTasaSistema(_ context.Context, t *entity.TasaComision) error {
	r.tasas[t.SistemaID] = t
	return nil
}

func (r *fakeComisionRepo) GetParticipacionClienteSistema(_ context.Context, clienteID, sistemaID string) (*entity.ParticipacionClienteSistema, error) {
	return r.participaciones[clienteID+"|"+sistemaID], nil
}

func (r *fakeComisionRepo) ListParticipacionesCliente(_ context.Context, clienteID string) ([]*entity.ParticipacionClienteSistema, error) {
	var out []*entity.ParticipacionClienteSistema
	for _, p := range r.participaciones {
		if p.ClienteID == clienteID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakeComisionRepo) UpsertParticipacionClienteSistema(_ context.Context, p *entity.ParticipacionClienteSistema) error {
	r.participaciones[p.ClienteID+"|"+p.SistemaID] = p
	return nil
}

func (r *fakeComisionRepo) GetComisionBanqueoCliente(_ context.Context, clienteID string) (*entity.ComisionBanqueoCliente, error) {
	return r.banqueo[clienteID], nil
}

func (r *fakeComisionRepo) UpsertComisionBanqueoCliente(_ context.Context, c *entity.ComisionBanqueoCliente) error {
	r.banqueo[c.ClienteID] = c
	return nil
}

type fakeBanqueoRepo struct {
	filas        []*entity.TransaccionBanqueo
	reemplazos   int
	pagosMarcados []string // "id:moneda:pagado"
}

func (r *fakeBanqueoRepo) ListBySemana(_ context.Context, clienteID string, semanaDesde time.Time) ([]*entity.TransaccionBanqueo, error) {
	var out []*entity.TransaccionBanqueo
	for _, f := range r.filas {
		if f.ClienteID == clienteID && f.SemanaDesde.Equal(semanaDesde) {
			out = append(out, f)
		}
	}
	return out, nil
}

func (r *fakeBanqueoRepo) ReplaceSemana(_ context.Context, clienteID string, semanaDesde time.Time, filas []*entity.TransaccionBanqueo) error {
	r.reemplazos++
	kept := r.filas[:0]
	for _, f := range r.filas {
		if f.ClienteID == clienteID && f.SemanaDesde.Equal(semanaDesde) {
			continue
		}
		kept = append(kept, f)
	}
	r.filas = append(kept, filas...)
	return nil
}

func (r *fakeBanqueoRepo) MarcarPagado(_ context.Context, id string, moneda string, pagado bool) error {
	for _, f := range r.filas {
		if f.ID != id {
			continue
		}
		if moneda == "BS" {
			f.PagadoBs = pagado
		} else {
			f.PagadoUSD = pagado
		}
		estado := "off"
		if pagado {
			estado = "on"
		}
		r.pagosMarcados = append(r.pagosMarcados, id+":"+moneda+":"+estado)
		return nil
	}
	return domain.ErrNotFound
}

type fakeAgenciaRepo struct {
	clientes map[string]*entity.ClienteBanqueo
}

func (r *fakeAgenciaRepo) GetAgencia(_ context.Context, _ string) (*entity.Agencia, error) {
	return nil, domain.ErrNotFound
}

func (r *fakeAgenciaRepo) GetCliente(_ context.Context, id string) (*entity.ClienteBanqueo, error) {
	return r.clientes[id], nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Entorno de prueba.
// ──────────────────────────────────────────────────────────────────────────────

type entornoBanqueo struct {
	uc           *appbanqueo.SettlementUseCase
	transRepo    *fakeTransRepo
	sistemaRepo  *fakeSistemaRepo
	comisionRepo *fakeComisionRepo
	banqueoRepo  *fakeBanqueoRepo
}

func nuevoEntorno() *entornoBanqueo {
	transRepo := &fakeTransRepo{}
	sistemaRepo := &fakeSistemaRepo{sistemas: []*entity.SistemaLoteria{
		{ID: "sis-1", Nombre: "Animalitos", Activo: true},
		{ID: "sis-2", Nombre: "Triple", Activo: true},
	}}
	comisionRepo := nuevoFakeComisionRepo()
	banqueoRepo := &fakeBanqueoRepo{}
	agenciaRepo := &fakeAgenciaRepo{clientes: map[string]*entity.ClienteBanqueo{
		clienteTest: {ID: clienteTest, Nombre: "Inversiones El Trébol", Activo: true},
	}}

	agg := appcuadre.NewAggregator(transRepo, fakeCierreRepo{}, sistemaRepo)
	return &entornoBanqueo{
		uc:           appbanqueo.NewSettlementUseCase(agg, comisionRepo, sistemaRepo, banqueoRepo, agenciaRepo),
		transRepo:    transRepo,
		sistemaRepo:  sistemaRepo,
		comisionRepo: comisionRepo,
		banqueoRepo:  banqueoRepo,
	}
}

func (e *entornoBanqueo) mov(sistemaID, tipo, bs string, dia int) {
	e.transRepo.trans = append(e.transRepo.trans, &entity.Transaccion{
		ID:        "tr-" + sistemaID + "-" + tipo,
		ClienteID: clienteTest,
		SistemaID: sistemaID,
		Fecha:     semana.AddDate(0, 0, dia),
		Tipo:      tipo,
		MontoBs:   d(bs),
	})
}

func (e *entornoBanqueo) conTasaSistema(sistemaID, comision, participacion string) {
	e.comisionRepo.tasas[sistemaID] = &entity.TasaComision{
		SistemaID:  sistemaID,
		ComisionBs: entity.PorcentajeDesdeString(comision),
		UtilidadBs: entity.PorcentajeDesdeString(participacion),
	}
}

func (e *entornoBanqueo) conSistemaPadre(id, nombre string) {
	e.sistemaRepo.sistemas = append(e.sistemaRepo.sistemas, &entity.SistemaLoteria{
		ID: id, Nombre: nombre, TieneSubcategorias: true, Activo: true,
	})
}

// ──────────────────────────────────────────────────────────────────────────────
// Previsualizar: liquida sin persistir.
// ──────────────────────────────────────────────────────────────────────────────

func TestPrevisualizar_CascadaPorSistema(t *testing.T) {
	e := nuevoEntorno()
	e.mov("sis-1", entity.TipoVenta, "1000", 0)
	e.mov("sis-1", entity.TipoPremio, "300", 2)
	e.mov("sis-2", entity.TipoVenta, "500", 1)
	e.mov("sis-2", entity.TipoPremio, "100", 1)
	e.conTasaSistema("sis-1", "10", "20")
	e.comisionRepo.banqueo[clienteTest] = &entity.ComisionBanqueoCliente{
		ClienteID:             clienteTest,
		ParticipacionLanaveBs: entity.PorcentajeDesdeString("5"),
	}

	resp, err := e.uc.Previsualizar(context.Background(), clienteTest, semana)
	require.NoError(t, err)
	require.Len(t, resp.Lineas, 2)

	// Las filas salen ordenadas por nombre de sistema: Animalitos, Triple.
	sis1 := resp.Lineas[0]
	assert.Equal(t, "sis-1", sis1.SistemaID)
	assert.True(t, d("700").Equal(sis1.NetoBs), "neto = ventas - premios")
	assert.True(t, d("100").Equal(sis1.ComisionBs), "10% de 1000")
	assert.True(t, d("600").Equal(sis1.SubtotalBs))
	assert.True(t, d("120").Equal(sis1.ParticipacionBs), "20% de 600")
	assert.True(t, d("30").Equal(sis1.LanaveBs), "5% de 600")
	assert.True(t, d("480").Equal(sis1.FinalBs))

	// sis-2 no tiene configuración: todos los porcentajes caen a 0.
	sis2 := resp.Lineas[1]
	assert.Equal(t, "sis-2", sis2.SistemaID)
	assert.True(t, sis2.ComisionBs.IsZero())
	assert.True(t, d("400").Equal(sis2.FinalBs), "sin tasas el final es el neto")
	// La fila de cliente sí alcanza a sis-2.
	assert.True(t, d("20").Equal(sis2.LanaveBs), "5% de 400")

	assert.True(t, d("1500").Equal(resp.TotalVentasBs))
	assert.True(t, d("100").Equal(resp.TotalComisionBs))
	assert.True(t, d("880").Equal(resp.TotalFinalBs))

	assert.Zero(t, e.banqueoRepo.reemplazos, "previsualizar no debe persistir")
}

func TestPrevisualizar_OverrideClienteSistema(t *testing.T) {
	e := nuevoEntorno()
	e.mov("sis-1", entity.TipoVenta, "1000", 0)
	e.conTasaSistema("sis-1", "10", "20")
	e.comisionRepo.participaciones[clienteTest+"|sis-1"] = &entity.ParticipacionClienteSistema{
		ClienteID:         clienteTest,
		SistemaID:         "sis-1",
		ComisionClienteBs: entity.PorcentajeDesdeString("15"),
	}

	resp, err := e.uc.Previsualizar(context.Background(), clienteTest, semana)
	require.NoError(t, err)
	require.Len(t, resp.Lineas, 1)

	l := resp.Lineas[0]
	assert.True(t, d("15").Equal(l.ComisionPctBs), "el override del cliente pisa la tasa del sistema")
	assert.True(t, d("150").Equal(l.ComisionBs))
	assert.True(t, d("20").Equal(l.ParticipacionPctBs), "los campos ausentes del override caen al sistema")
}

func TestPrevisualizar_SistemaPadreNoSeLiquida(t *testing.T) {
	e := nuevoEntorno()
	e.conSistemaPadre("sis-padre", "Terminales")
	e.transRepo.trans = append(e.transRepo.trans, &entity.Transaccion{
		ID: "tr-padre", ClienteID: clienteTest, SistemaID: "sis-padre",
		Fecha: semana, Tipo: entity.TipoVenta, MontoBs: d("900"),
	})
	e.mov("sis-1", entity.TipoVenta, "200", 0)
	e.conTasaSistema("sis-1", "10", "0")

	resp, err := e.uc.Previsualizar(context.Background(), clienteTest, semana)
	require.NoError(t, err)
	require.Len(t, resp.Lineas, 1, "el sistema padre no genera línea de liquidación")
	assert.Equal(t, "sis-1", resp.Lineas[0].SistemaID)
	assert.True(t, d("200").Equal(resp.TotalVentasBs))
}

func TestPrevisualizar_SemanaSinMovimiento(t *testing.T) {
	e := nuevoEntorno()

	resp, err := e.uc.Previsualizar(context.Background(), clienteTest, semana)
	require.NoError(t, err)

	assert.Empty(t, resp.Lineas)
	assert.True(t, resp.TotalVentasBs.IsZero())
	assert.True(t, resp.TotalFinalBs.IsZero())
}

func TestPrevisualizar_ClienteDesconocido(t *testing.T) {
	e := nuevoEntorno()

	_, err := e.uc.Previsualizar(context.Background(), "cli-fantasma", semana)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Guardar: reemplazo completo de la semana con snapshot de porcentajes.
// ──────────────────────────────────────────────────────────────────────────────

func TestGuardar_PersisteFilasConSnapshot(t *testing.T) {
	e := nuevoEntorno()
	e.mov("sis-1", entity.TipoVenta, "1000", 0)
	e.mov("sis-1", entity.TipoPremio, "300", 3)
	e.conTasaSistema("sis-1", "10", "20")

	resp, err := e.uc.Guardar(context.Background(), clienteTest, semana)
	require.NoError(t, err)

	require.Len(t, e.banqueoRepo.filas, 1)
	fila := e.banqueoRepo.filas[0]
	assert.NotEmpty(t, fila.ID)
	assert.Equal(t, clienteTest, fila.ClienteID)
	assert.True(t, semana.Equal(fila.SemanaDesde))
	assert.True(t, d("1000").Equal(fila.VentasBs))
	assert.True(t, d("300").Equal(fila.PremiosBs))
	assert.True(t, d("10").Equal(fila.ComisionPctBs), "los porcentajes quedan congelados en la fila")
	assert.True(t, d("20").Equal(fila.ParticipacionPctBs))

	assert.Equal(t, 1, e.banqueoRepo.reemplazos)
	assert.True(t, d("480").Equal(resp.TotalFinalBs))
}

func TestGuardar_ReemplazoConservaBanderasDePago(t *testing.T) {
	e := nuevoEntorno()
	e.mov("sis-1", entity.TipoVenta, "1000", 0)
	e.conTasaSistema("sis-1", "10", "20")

	_, err := e.uc.Guardar(context.Background(), clienteTest, semana)
	require.NoError(t, err)

	idOriginal := e.banqueoRepo.filas[0].ID
	require.NoError(t, e.banqueoRepo.MarcarPagado(context.Background(), idOriginal, "BS", true))

	// Llega una venta tardía y se reliquida la misma semana.
	e.mov("sis-1", entity.TipoPremio, "200", 5)
	resp, err := e.uc.Guardar(context.Background(), clienteTest, semana)
	require.NoError(t, err)

	require.Len(t, e.banqueoRepo.filas, 1)
	fila := e.banqueoRepo.filas[0]
	assert.NotEqual(t, idOriginal, fila.ID, "el reemplazo inserta filas nuevas")
	assert.True(t, fila.PagadoBs, "la bandera de pago sobrevive al reemplazo")
	assert.False(t, fila.PagadoUSD)
	assert.True(t, d("200").Equal(fila.PremiosBs))
	assert.True(t, resp.Lineas[0].PagadoBs, "la respuesta refleja el pago conservado")
}

func TestGuardar_ClienteDesconocido(t *testing.T) {
	e := nuevoEntorno()

	_, err := e.uc.Guardar(context.Background(), "cli-fantasma", semana)

	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Zero(t, e.banqueoRepo.reemplazos)
}

// ──────────────────────────────────────────────────────────────────────────────
// MarcarPago.
// ──────────────────────────────────────────────────────────────────────────────

func TestMarcarPago_ValidaEntrada(t *testing.T) {
	e := nuevoEntorno()

	casos := []struct {
		nombre string
		req    dto.MarcarPagoRequest
	}{
		{"sin fila", dto.MarcarPagoRequest{Moneda: "BS", Pagado: true}},
		{"moneda desconocida", dto.MarcarPagoRequest{FilaID: "fila-1", Moneda: "EUR", Pagado: true}},
		{"moneda vacía", dto.MarcarPagoRequest{FilaID: "fila-1"}},
	}
	for _, c := range casos {
		t.Run(c.nombre, func(t *testing.T) {
			err := e.uc.MarcarPago(context.Background(), c.req)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
	assert.Empty(t, e.banqueoRepo.pagosMarcados, "la validación corta antes del repositorio")
}

func TestMarcarPago_PorMoneda(t *testing.T) {
	e := nuevoEntorno()
	e.banqueoRepo.filas = append(e.banqueoRepo.filas, &entity.TransaccionBanqueo{
		ID: "fila-1", ClienteID: clienteTest, SistemaID: "sis-1", SemanaDesde: semana,
	})

	require.NoError(t, e.uc.MarcarPago(context.Background(), dto.MarcarPagoRequest{FilaID: "fila-1", Moneda: "USD", Pagado: true}))
	assert.False(t, e.banqueoRepo.filas[0].PagadoBs)
	assert.True(t, e.banqueoRepo.filas[0].PagadoUSD)

	require.NoError(t, e.uc.MarcarPago(context.Background(), dto.MarcarPagoRequest{FilaID: "fila-1", Moneda: "USD", Pagado: false}))
	assert.False(t, e.banqueoRepo.filas[0].PagadoUSD, "el pago se puede revertir")
}

func TestMarcarPago_FilaInexistente(t *testing.T) {
	e := nuevoEntorno()

	err := e.uc.MarcarPago(context.Background(), dto.MarcarPagoRequest{FilaID: "fila-x", Moneda: "BS", Pagado: true})

	assert.ErrorIs(t, err, domain.ErrNotFound)
}
