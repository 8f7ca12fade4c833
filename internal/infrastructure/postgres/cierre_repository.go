package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/lanave/agencias-api/internal/domain/entity"
	"github.com/lanave/agencias-api/internal/domain/repository"
)

var _ repository.CierreRepository = (*CierreRepo)(nil)

// CierreRepo implementación de CierreRepository (usable con pool o tx).
// El bloque de ajuste se guarda como JSONB, igual que en el esquema original.
type CierreRepo struct {
	q Querier
}

// NewCierreRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCierreRepository(q Querier) *CierreRepo {
	return &CierreRepo{q: q}
}

const columnasCierre = `
	id, agencia_id, sesion_id, usuario_id, fecha, efectivo_bs, efectivo_usd,
	tasa_cambio, notas, ajuste, cierre_confirmado, estado_revision, created_at, updated_at`

// Upsert inserta o actualiza el cierre de (sesión, fecha).
func (r *CierreRepo) Upsert(ctx context.Context, c *entity.CierreDiario) error {
	ajuste, err := json.Marshal(c.Ajuste)
	if err != nil {
		return fmt.Errorf("serializar ajuste: %w", err)
	}
	query := `
		INSERT INTO cierres_diarios (` + columnasCierre + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (sesion_id, fecha) DO UPDATE SET
			efectivo_bs = EXCLUDED.efectivo_bs,
			efectivo_usd = EXCLUDED.efectivo_usd,
			tasa_cambio = EXCLUDED.tasa_cambio,
			notas = EXCLUDED.notas,
			ajuste = EXCLUDED.ajuste,
			cierre_confirmado = EXCLUDED.cierre_confirmado,
			updated_at = EXCLUDED.updated_at`
	_, err = r.q.Exec(ctx, query,
		c.ID, c.AgenciaID, c.SesionID, c.UsuarioID, c.Fecha,
		c.EfectivoBs, c.EfectivoUSD, c.TasaCambio, c.Notas, ajuste,
		c.CierreConfirmado, c.EstadoRevision, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert cierre: %w", err)
	}
	return nil
}

// ListByAgenciaFecha lista los cierres de la agencia en el rango (inclusive).
func (r *CierreRepo) ListByAgenciaFecha(ctx context.Context, agenciaID string, desde, hasta time.Time) ([]*entity.CierreDiario, error) {
	query := `
		SELECT ` + columnasCierre + `
		FROM cierres_diarios
		WHERE agencia_id = $1 AND fecha >= $2 AND fecha <= $3
		ORDER BY fecha, sesion_id`
	rows, err := r.q.Query(ctx, query, agenciaID, desde, hasta)
	if err != nil {
		return nil, fmt.Errorf("list cierres: %w", err)
	}
	defer rows.Close()

	var list []*entity.CierreDiario
	for rows.Next() {
		c, err := scanCierre(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// GetBySesionFecha obtiene el cierre de una sesión en una fecha, o nil si no existe.
func (r *CierreRepo) GetBySesionFecha(ctx context.Context, sesionID string, fecha time.Time) (*entity.CierreDiario, error) {
	query := `
		SELECT ` + columnasCierre + `
		FROM cierres_diarios
		WHERE sesion_id = $1 AND fecha = $2`
	row := r.q.QueryRow(ctx, query, sesionID, fecha)
	c, err := scanCierre(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return c, nil
}

// MarcarRevision propaga el estado de revisión del consolidado a todas las
// sesiones de la agencia en la fecha.
func (r *CierreRepo) MarcarRevision(ctx context.Context, agenciaID string, fecha time.Time, estado string) error {
	_, err := r.q.Exec(ctx, `
		UPDATE cierres_diarios SET estado_revision = $3, updated_at = now()
		WHERE agencia_id = $1 AND fecha = $2`,
		agenciaID, fecha, estado,
	)
	if err != nil {
		return fmt.Errorf("marcar revisión de sesiones: %w", err)
	}
	return nil
}

func scanCierre(row pgx.Row) (*entity.CierreDiario, error) {
	var c entity.CierreDiario
	var ajuste []byte
	if err := row.Scan(
		&c.ID, &c.AgenciaID, &c.SesionID, &c.UsuarioID, &c.Fecha,
		&c.EfectivoBs, &c.EfectivoUSD, &c.TasaCambio, &c.Notas, &ajuste,
		&c.CierreConfirmado, &c.EstadoRevision, &c.CreatedAt, &c.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, pgx.ErrNoRows
		}
		return nil, fmt.Errorf("scan cierre: %w", err)
	}
	if len(ajuste) > 0 {
		if err := json.Unmarshal(ajuste, &c.Ajuste); err != nil {
			return nil, fmt.Errorf("deserializar ajuste: %w", err)
		}
	}
	return &c, nil
}
