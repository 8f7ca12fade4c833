package cuadre_test

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	appcuadre "github.com/lanave/agencias-api/internal/application/cuadre"
	"github.com/lanave/agencias-api/internal/application/dto"
	"github.com/lanave/agencias-api/internal/domain"
	"github.com/lanave/agencias-api/internal/domain/entity"
	"github.com/lanave/agencias-api/internal/domain/repository"
	"github.com/lanave/agencias-api/pkg/logger"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

var fecha = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria de los puertos de repositorio y del draft store.
// ──────────────────────────────────────────────────────────────────────────────

type fakeTransRepo struct {
	mu    sync.Mutex
	trans []*entity.Transaccion
}

func (r *fakeTransRepo) Create(_ context.Context, t *entity.Transaccion) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.trans = append(r.trans, t)
	return nil
}

func (r *fakeTransRepo) ListBy(_ context.Context, f repository.FiltroTransacciones) ([]*entity.Transaccion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Transaccion
	for _, t := range r.trans {
		if f.AgenciaID != "" && t.AgenciaID != f.AgenciaID {
			continue
		}
		if f.ClienteID != "" && t.ClienteID != f.ClienteID {
			continue
		}
		if f.ActorID != "" && t.CreadaPor != f.ActorID {
			continue
		}
		if t.Fecha.Before(f.Desde) || t.Fecha.After(f.Hasta) {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (r *fakeTransRepo) MarcarPagado(_ context.Context, id string, pagado bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.trans {
		if t.ID == id {
			t.Pagado = pagado
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *fakeTransRepo) ReplaceDetalle(_ context.Context, agenciaID string, fecha time.Time, actorID string, filas []*entity.Transaccion) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.trans[:0]
	for _, t := range r.trans {
		if t.AgenciaID == agenciaID && t.CreadaPor == actorID && t.Fecha.Equal(fecha) && t.SesionID == "" {
			continue
		}
		kept = append(kept, t)
	}
	r.trans = append(kept, filas...)
	return nil
}

type fakeCierreRepo struct {
	cierres        []*entity.CierreDiario
	marcados       []string // estados pasados a MarcarRevision, en orden
	failMarcar     error
}

func (r *fakeCierreRepo) Upsert(_ context.Context, c *entity.CierreDiario) error {
	r.cierres = append(r.cierres, c)
	return nil
}

func (r *fakeCierreRepo) ListByAgenciaFecha(_ context.Context, agenciaID string, desde, hasta time.Time) ([]*entity.CierreDiario, error) {
	var out []*entity.CierreDiario
	for _, c := range r.cierres {
		if c.AgenciaID == agenciaID && !c.Fecha.Before(desde) && !c.Fecha.After(hasta) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeCierreRepo) GetBySesionFecha(_ context.Context, sesionID string, fecha time.Time) (*entity.CierreDiario, error) {
	for _, c := range r.cierres {
		if c.SesionID == sesionID && c.Fecha.Equal(fecha) {
			return c, nil
		}
	}
	return nil, nil
}

func (r *fakeCierreRepo) MarcarRevision(_ context.Context, agenciaID string, fecha time.Time, estado string) error {
	if r.failMarcar != nil {
		return r.failMarcar
	}
	r.marcados = append(r.marcados, estado)
	for _, c := range r.cierres {
		if c.AgenciaID == agenciaID && c.Fecha.Equal(fecha) {
			c.EstadoRevision = estado
		}
	}
	return nil
}

type fakeCuadreRepo struct {
	consolidados map[string]*entity.CuadreResumen // agencia|fecha
	inserts      int
	updates      int
}

func newFakeCuadreRepo() *fakeCuadreRepo {
	return &fakeCuadreRepo{consolidados: make(map[string]*entity.CuadreResumen)}
}

func claveConsolidado(agenciaID string, fecha time.Time) string {
	return agenciaID + "|" + fecha.Format("2006-01-02")
}

func (r *fakeCuadreRepo) GetConsolidado(_ context.Context, agenciaID string, fecha time.Time) (*entity.CuadreResumen, error) {
	c, ok := r.consolidados[claveConsolidado(agenciaID, fecha)]
	if !ok {
		return nil, nil
	}
	copia := *c
	return &copia, nil
}

func (r *fakeCuadreRepo) GetPorSesion(_ context.Context, agenciaID, sesionID string, fecha time.Time) (*entity.CuadreResumen, error) {
	return nil, nil
}

func (r *fakeCuadreRepo) ListByAgenciaRango(_ context.Context, agenciaID string, desde, hasta time.Time) ([]*entity.CuadreResumen, error) {
	var out []*entity.CuadreResumen
	for _, c := range r.consolidados {
		if c.AgenciaID == agenciaID && !c.Fecha.Before(desde) && !c.Fecha.After(hasta) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeCuadreRepo) Insert(_ context.Context, c *entity.CuadreResumen) error {
	r.inserts++
	copia := *c
	r.consolidados[claveConsolidado(c.AgenciaID, c.Fecha)] = &copia
	return nil
}

func (r *fakeCuadreRepo) Update(_ context.Context, c *entity.CuadreResumen) error {
	r.updates++
	copia := *c
	r.consolidados[claveConsolidado(c.AgenciaID, c.Fecha)] = &copia
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
	return nil, nil
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

type fakeDraftStore struct {
	mu       sync.Mutex
	borradores map[string]*dto.BorradorCuadre
	failClear  error
}

func newFakeDraftStore() *fakeDraftStore {
	return &fakeDraftStore{borradores: make(map[string]*dto.BorradorCuadre)}
}

func (s *fakeDraftStore) Get(_ context.Context, clave appcuadre.ClaveBorrador) (*dto.BorradorCuadre, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.borradores[clave.String()], nil
}

func (s *fakeDraftStore) Set(_ context.Context, clave appcuadre.ClaveBorrador, b *dto.BorradorCuadre) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.borradores[clave.String()] = b
	return nil
}

func (s *fakeDraftStore) Clear(_ context.Context, clave appcuadre.ClaveBorrador) error {
	if s.failClear != nil {
		return s.failClear
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.borradores, clave.String())
	return nil
}

type fakeNotifier struct {
	mu        sync.Mutex
	publicados []appcuadre.EventoCambio
	callbacks  []func(appcuadre.EventoCambio)
}

func (n *fakeNotifier) Publicar(_ context.Context, ev appcuadre.EventoCambio) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.publicados = append(n.publicados, ev)
	for _, cb := range n.callbacks {
		cb(ev)
	}
	return nil
}

func (n *fakeNotifier) Suscribir(_ context.Context, agenciaID string, fecha time.Time, callback func(appcuadre.EventoCambio)) (func(), error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	dia := fecha.Format("2006-01-02")
	n.callbacks = append(n.callbacks, func(ev appcuadre.EventoCambio) {
		if ev.AgenciaID == agenciaID && ev.Fecha.Format("2006-01-02") == dia {
			callback(ev)
		}
	})
	return func() {}, nil
}

// fakeTxRunner ejecuta el callback directo contra los fakes (sin transacción real).
type fakeTxRunner struct {
	cuadreRepo repository.CuadreRepository
	cierreRepo repository.CierreRepository
	transRepo  repository.TransaccionRepository
}

func (r *fakeTxRunner) Run(_ context.Context, fn func(
	cuadreRepo repository.CuadreRepository,
	cierreRepo repository.CierreRepository,
	transRepo repository.TransaccionRepository,
) error) error {
	return fn(r.cuadreRepo, r.cierreRepo, r.transRepo)
}

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Env: "production", Level: "error"})
}
