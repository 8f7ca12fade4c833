package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/lanave/agencias-api/internal/domain/entity"
	"github.com/lanave/agencias-api/internal/domain/repository"
)

var _ repository.ComisionRepository = (*ComisionRepo)(nil)

// ComisionRepo implementación de ComisionRepository (usable con pool o tx).
// Los porcentajes van en columnas NUMERIC NULLables: NULL es "no configurado"
// y 0 es un override explícito; la cascada depende de esa diferencia.
type ComisionRepo struct {
	q Querier
}

// NewComisionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewComisionRepository(q Querier) *ComisionRepo {
	return &ComisionRepo{q: q}
}

// GetTasaSistema obtiene la tasa global del sistema, o nil si no está configurada.
func (r *ComisionRepo) GetTasaSistema(ctx context.Context, sistemaID string) (*entity.TasaComision, error) {
	query := `
		SELECT id, sistema_id, comision_bs, comision_usd, utilidad_bs, utilidad_usd, updated_at
		FROM tasas_comision WHERE sistema_id = $1`
	var t entity.TasaComision
	var comBs, comUSD, utilBs, utilUSD *decimal.Decimal
	err := r.q.QueryRow(ctx, query, sistemaID).Scan(
		&t.ID, &t.SistemaID, &comBs, &comUSD, &utilBs, &utilUSD, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get tasa sistema: %w", err)
	}
	t.ComisionBs = entity.PorcentajeDesdePuntero(comBs)
	t.ComisionUSD = entity.PorcentajeDesdePuntero(comUSD)
	t.UtilidadBs = entity.PorcentajeDesdePuntero(utilBs)
	t.UtilidadUSD = entity.PorcentajeDesdePuntero(utilUSD)
	return &t, nil
}

// UpsertTasaSistema inserta o actualiza la tasa global del sistema.
func (r *ComisionRepo) UpsertTasaSistema(ctx context.Context, t *entity.TasaComision) error {
	query := `
		INSERT INTO tasas_comision (id, sistema_id, comision_bs, comision_usd, utilidad_bs, utilidad_usd, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (sistema_id) DO UPDATE SET
			comision_bs = EXCLUDED.comision_bs,
			comision_usd = EXCLUDED.comision_usd,
			utilidad_bs = EXCLUDED.utilidad_bs,
			utilidad_usd = EXCLUDED.utilidad_usd,
			updated_at = EXCLUDED.updated_at`
	_, err := r.q.Exec(ctx, query,
		t.ID, t.SistemaID,
		t.ComisionBs.Puntero(), t.ComisionUSD.Puntero(),
		t.UtilidadBs.Puntero(), t.UtilidadUSD.Puntero(),
		t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert tasa sistema: %w", err)
	}
	return nil
}

// GetParticipacionClienteSistema obtiene el override de (cliente, sistema), o nil.
func (r *ComisionRepo) GetParticipacionClienteSistema(ctx context.Context, clienteID, sistemaID string) (*entity.ParticipacionClienteSistema, error) {
	query := `
		SELECT id, cliente_id, sistema_id, comision_cliente_bs, comision_cliente_usd,
			participacion_bs, participacion_usd, participacion_lanave_bs, participacion_lanave_usd, updated_at
		FROM participaciones_cliente_sistema WHERE cliente_id = $1 AND sistema_id = $2`
	row := r.q.QueryRow(ctx, query, clienteID, sistemaID)
	p, err := scanParticipacion(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return p, nil
}

// ListParticipacionesCliente lista los overrides de un cliente sobre todos sus sistemas.
func (r *ComisionRepo) ListParticipacionesCliente(ctx context.Context, clienteID string) ([]*entity.ParticipacionClienteSistema, error) {
	query := `
		SELECT id, cliente_id, sistema_id, comision_cliente_bs, comision_cliente_usd,
			participacion_bs, participacion_usd, participacion_lanave_bs, participacion_lanave_usd, updated_at
		FROM participaciones_cliente_sistema WHERE cliente_id = $1 ORDER BY sistema_id`
	rows, err := r.q.Query(ctx, query, clienteID)
	if err != nil {
		return nil, fmt.Errorf("list participaciones: %w", err)
	}
	defer rows.Close()

	var list []*entity.ParticipacionClienteSistema
	for rows.Next() {
		p, err := scanParticipacion(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// UpsertParticipacionClienteSistema inserta o actualiza el override de (cliente, sistema).
func (r *ComisionRepo) UpsertParticipacionClienteSistema(ctx context.Context, p *entity.ParticipacionClienteSistema) error {
	query := `
		INSERT INTO participaciones_cliente_sistema (
			id, cliente_id, sistema_id, comision_cliente_bs, comision_cliente_usd,
			participacion_bs, participacion_usd, participacion_lanave_bs, participacion_lanave_usd, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (cliente_id, sistema_id) DO UPDATE SET
			comision_cliente_bs = EXCLUDED.comision_cliente_bs,
			comision_cliente_usd = EXCLUDED.comision_cliente_usd,
			participacion_bs = EXCLUDED.participacion_bs,
			participacion_usd = EXCLUDED.participacion_usd,
			participacion_lanave_bs = EXCLUDED.participacion_lanave_bs,
			participacion_lanave_usd = EXCLUDED.participacion_lanave_usd,
			updated_at = EXCLUDED.updated_at`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.ClienteID, p.SistemaID,
		p.ComisionClienteBs.Puntero(), p.ComisionClienteUSD.Puntero(),
		p.ParticipacionBs.Puntero(), p.ParticipacionUSD.Puntero(),
		p.ParticipacionLanaveBs.Puntero(), p.ParticipacionLanaveUSD.Puntero(),
		p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert participación: %w", err)
	}
	return nil
}

// GetComisionBanqueoCliente obtiene la participación Lanave global del cliente, o nil.
func (r *ComisionRepo) GetComisionBanqueoCliente(ctx context.Context, clienteID string) (*entity.ComisionBanqueoCliente, error) {
	query := `
		SELECT id, cliente_id, participacion_lanave_bs, participacion_lanave_usd, updated_at
		FROM comisiones_banqueo_cliente WHERE cliente_id = $1`
	var c entity.ComisionBanqueoCliente
	var lanBs, lanUSD *decimal.Decimal
	err := r.q.QueryRow(ctx, query, clienteID).Scan(&c.ID, &c.ClienteID, &lanBs, &lanUSD, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get comisión banqueo: %w", err)
	}
	c.ParticipacionLanaveBs = entity.PorcentajeDesdePuntero(lanBs)
	c.ParticipacionLanaveUSD = entity.PorcentajeDesdePuntero(lanUSD)
	return &c, nil
}

// UpsertComisionBanqueoCliente inserta o actualiza la participación Lanave del cliente.
func (r *ComisionRepo) UpsertComisionBanqueoCliente(ctx context.Context, c *entity.ComisionBanqueoCliente) error {
	query := `
		INSERT INTO comisiones_banqueo_cliente (id, cliente_id, participacion_lanave_bs, participacion_lanave_usd, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (cliente_id) DO UPDATE SET
			participacion_lanave_bs = EXCLUDED.participacion_lanave_bs,
			participacion_lanave_usd = EXCLUDED.participacion_lanave_usd,
			updated_at = EXCLUDED.updated_at`
	_, err := r.q.Exec(ctx, query,
		c.ID, c.ClienteID,
		c.ParticipacionLanaveBs.Puntero(), c.ParticipacionLanaveUSD.Puntero(),
		c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert comisión banqueo: %w", err)
	}
	return nil
}

func scanParticipacion(row pgx.Row) (*entity.ParticipacionClienteSistema, error) {
	var p entity.ParticipacionClienteSistema
	var comBs, comUSD, parBs, parUSD, lanBs, lanUSD *decimal.Decimal
	if err := row.Scan(
		&p.ID, &p.ClienteID, &p.SistemaID, &comBs, &comUSD,
		&parBs, &parUSD, &lanBs, &lanUSD, &p.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, pgx.ErrNoRows
		}
		return nil, fmt.Errorf("scan participación: %w", err)
	}
	p.ComisionClienteBs = entity.PorcentajeDesdePuntero(comBs)
	p.ComisionClienteUSD = entity.PorcentajeDesdePuntero(comUSD)
	p.ParticipacionBs = entity.PorcentajeDesdePuntero(parBs)
	p.ParticipacionUSD = entity.PorcentajeDesdePuntero(parUSD)
	p.ParticipacionLanaveBs = entity.PorcentajeDesdePuntero(lanBs)
	p.ParticipacionLanaveUSD = entity.PorcentajeDesdePuntero(lanUSD)
	return &p, nil
}
