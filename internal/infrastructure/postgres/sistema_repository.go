package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/lanave/agencias-api/internal/domain"
	"github.com/lanave/agencias-api/internal/domain/entity"
	"github.com/lanave/agencias-api/internal/domain/repository"
)

var _ repository.SistemaRepository = (*SistemaRepo)(nil)

const columnasSistema = `id, nombre, codigo, padre_id, tiene_subcategorias, activo, created_at`

// SistemaRepo implementación postgres del catálogo de sistemas de lotería.
type SistemaRepo struct {
	q Querier
}

func NewSistemaRepository(q Querier) *SistemaRepo {
	return &SistemaRepo{q: q}
}

func (r *SistemaRepo) GetByID(ctx context.Context, id string) (*entity.SistemaLoteria, error) {
	query := `SELECT ` + columnasSistema + ` FROM sistemas_loteria WHERE id = $1`
	s, err := scanSistema(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return s, nil
}

func (r *SistemaRepo) ListActivos(ctx context.Context) ([]*entity.SistemaLoteria, error) {
	query := `SELECT ` + columnasSistema + ` FROM sistemas_loteria WHERE activo ORDER BY nombre, id`
	return r.list(ctx, query)
}

func (r *SistemaRepo) ListSubcategorias(ctx context.Context, padreID string) ([]*entity.SistemaLoteria, error) {
	query := `SELECT ` + columnasSistema + ` FROM sistemas_loteria WHERE padre_id = $1 AND activo ORDER BY nombre, id`
	return r.list(ctx, query, padreID)
}

func (r *SistemaRepo) list(ctx context.Context, query string, args ...any) ([]*entity.SistemaLoteria, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sistemas: %w", err)
	}
	defer rows.Close()

	var list []*entity.SistemaLoteria
	for rows.Next() {
		s, err := scanSistema(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

func scanSistema(row pgx.Row) (*entity.SistemaLoteria, error) {
	var s entity.SistemaLoteria
	var padreID *string
	if err := row.Scan(&s.ID, &s.Nombre, &s.Codigo, &padreID, &s.TieneSubcategorias, &s.Activo, &s.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, pgx.ErrNoRows
		}
		return nil, fmt.Errorf("scan sistema: %w", err)
	}
	s.PadreID = deref(padreID)
	return &s, nil
}

var _ repository.AgenciaRepository = (*AgenciaRepo)(nil)

// AgenciaRepo implementación postgres del catálogo de agencias y clientes banqueo.
type AgenciaRepo struct {
	q Querier
}

func NewAgenciaRepository(q Querier) *AgenciaRepo {
	return &AgenciaRepo{q: q}
}

func (r *AgenciaRepo) GetAgencia(ctx context.Context, id string) (*entity.Agencia, error) {
	query := `SELECT id, nombre, grupo_id, activa, created_at FROM agencias WHERE id = $1`
	var a entity.Agencia
	var grupoID *string
	err := r.q.QueryRow(ctx, query, id).Scan(&a.ID, &a.Nombre, &grupoID, &a.Activa, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get agencia: %w", err)
	}
	a.GrupoID = deref(grupoID)
	return &a, nil
}

func (r *AgenciaRepo) GetCliente(ctx context.Context, id string) (*entity.ClienteBanqueo, error) {
	query := `SELECT id, nombre, activo, created_at FROM clientes_banqueo WHERE id = $1`
	var c entity.ClienteBanqueo
	err := r.q.QueryRow(ctx, query, id).Scan(&c.ID, &c.Nombre, &c.Activo, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get cliente banqueo: %w", err)
	}
	return &c, nil
}
