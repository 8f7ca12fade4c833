package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/lanave/agencias-api/internal/domain"
	"github.com/lanave/agencias-api/internal/domain/entity"
	"github.com/lanave/agencias-api/internal/domain/repository"
)

var _ repository.CuadreRepository = (*CuadreRepo)(nil)

// CuadreRepo implementación de CuadreRepository (usable con pool o tx).
// El consolidado se identifica por (agencia, fecha, sesion_id IS NULL); un
// índice único parcial en la base garantiza a lo sumo uno.
type CuadreRepo struct {
	q Querier
}

// NewCuadreRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCuadreRepository(q Querier) *CuadreRepo {
	return &CuadreRepo{q: q}
}

const columnasCuadre = `
	id, agencia_id, sesion_id, fecha,
	ventas_bs, ventas_usd, premios_bs, premios_usd,
	gastos_bs, gastos_usd, deudas_bs, deudas_usd,
	pago_movil_recibido, pago_movil_pagado, punto_venta,
	efectivo_bs, efectivo_usd, premios_pendientes_bs, premios_pendientes_usd,
	tasa_cambio, ajuste, estado_revision, revisado_por, revisado_en,
	observaciones, created_at, updated_at`

// GetConsolidado obtiene el resumen consolidado (sin sesión) de (agencia, fecha), o nil.
func (r *CuadreRepo) GetConsolidado(ctx context.Context, agenciaID string, fecha time.Time) (*entity.CuadreResumen, error) {
	query := `
		SELECT ` + columnasCuadre + `
		FROM cuadre_resumenes
		WHERE agencia_id = $1 AND fecha = $2 AND sesion_id IS NULL`
	return r.getOne(ctx, query, agenciaID, fecha)
}

// GetPorSesion obtiene el resumen por sesión de (agencia, sesión, fecha), o nil.
func (r *CuadreRepo) GetPorSesion(ctx context.Context, agenciaID, sesionID string, fecha time.Time) (*entity.CuadreResumen, error) {
	query := `
		SELECT ` + columnasCuadre + `
		FROM cuadre_resumenes
		WHERE agencia_id = $1 AND sesion_id = $2 AND fecha = $3`
	return r.getOne(ctx, query, agenciaID, sesionID, fecha)
}

// ListByAgenciaRango lista los resúmenes consolidados de la agencia en el rango.
func (r *CuadreRepo) ListByAgenciaRango(ctx context.Context, agenciaID string, desde, hasta time.Time) ([]*entity.CuadreResumen, error) {
	query := `
		SELECT ` + columnasCuadre + `
		FROM cuadre_resumenes
		WHERE agencia_id = $1 AND fecha >= $2 AND fecha <= $3 AND sesion_id IS NULL
		ORDER BY fecha`
	rows, err := r.q.Query(ctx, query, agenciaID, desde, hasta)
	if err != nil {
		return nil, fmt.Errorf("list cuadres: %w", err)
	}
	defer rows.Close()

	var list []*entity.CuadreResumen
	for rows.Next() {
		c, err := scanCuadre(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// Insert persiste un resumen nuevo.
func (r *CuadreRepo) Insert(ctx context.Context, c *entity.CuadreResumen) error {
	ajuste, err := json.Marshal(c.Ajuste)
	if err != nil {
		return fmt.Errorf("serializar ajuste: %w", err)
	}
	query := `
		INSERT INTO cuadre_resumenes (` + columnasCuadre + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			$15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27)`
	_, err = r.q.Exec(ctx, query,
		c.ID, c.AgenciaID, nullIfEmpty(c.SesionID), c.Fecha,
		c.VentasBs, c.VentasUSD, c.PremiosBs, c.PremiosUSD,
		c.GastosBs, c.GastosUSD, c.DeudasBs, c.DeudasUSD,
		c.PagoMovilRecibido, c.PagoMovilPagado, c.PuntoVenta,
		c.EfectivoBs, c.EfectivoUSD, c.PremiosPendientesBs, c.PremiosPendientesUSD,
		c.TasaCambio, ajuste, c.EstadoRevision, nullIfEmpty(c.RevisadoPor), c.RevisadoEn,
		c.Observaciones, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert cuadre: %w", err)
	}
	return nil
}

// Update actualiza un resumen existente por ID. Devuelve ErrNotFound si la
// fila desapareció: el caller cae a Insert (find-or-create idempotente).
func (r *CuadreRepo) Update(ctx context.Context, c *entity.CuadreResumen) error {
	ajuste, err := json.Marshal(c.Ajuste)
	if err != nil {
		return fmt.Errorf("serializar ajuste: %w", err)
	}
	query := `
		UPDATE cuadre_resumenes SET
			ventas_bs = $2, ventas_usd = $3, premios_bs = $4, premios_usd = $5,
			gastos_bs = $6, gastos_usd = $7, deudas_bs = $8, deudas_usd = $9,
			pago_movil_recibido = $10, pago_movil_pagado = $11, punto_venta = $12,
			efectivo_bs = $13, efectivo_usd = $14,
			premios_pendientes_bs = $15, premios_pendientes_usd = $16,
			tasa_cambio = $17, ajuste = $18, estado_revision = $19,
			revisado_por = $20, revisado_en = $21, observaciones = $22, updated_at = $23
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		c.ID,
		c.VentasBs, c.VentasUSD, c.PremiosBs, c.PremiosUSD,
		c.GastosBs, c.GastosUSD, c.DeudasBs, c.DeudasUSD,
		c.PagoMovilRecibido, c.PagoMovilPagado, c.PuntoVenta,
		c.EfectivoBs, c.EfectivoUSD, c.PremiosPendientesBs, c.PremiosPendientesUSD,
		c.TasaCambio, ajuste, c.EstadoRevision,
		nullIfEmpty(c.RevisadoPor), c.RevisadoEn, c.Observaciones, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update cuadre: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *CuadreRepo) getOne(ctx context.Context, query string, args ...any) (*entity.CuadreResumen, error) {
	row := r.q.QueryRow(ctx, query, args...)
	c, err := scanCuadre(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return c, nil
}

func scanCuadre(row pgx.Row) (*entity.CuadreResumen, error) {
	var c entity.CuadreResumen
	var sesionID, revisadoPor *string
	var ajuste []byte
	if err := row.Scan(
		&c.ID, &c.AgenciaID, &sesionID, &c.Fecha,
		&c.VentasBs, &c.VentasUSD, &c.PremiosBs, &c.PremiosUSD,
		&c.GastosBs, &c.GastosUSD, &c.DeudasBs, &c.DeudasUSD,
		&c.PagoMovilRecibido, &c.PagoMovilPagado, &c.PuntoVenta,
		&c.EfectivoBs, &c.EfectivoUSD, &c.PremiosPendientesBs, &c.PremiosPendientesUSD,
		&c.TasaCambio, &ajuste, &c.EstadoRevision, &revisadoPor, &c.RevisadoEn,
		&c.Observaciones, &c.CreatedAt, &c.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, pgx.ErrNoRows
		}
		return nil, fmt.Errorf("scan cuadre: %w", err)
	}
	c.SesionID = deref(sesionID)
	c.RevisadoPor = deref(revisadoPor)
	if len(ajuste) > 0 {
		if err := json.Unmarshal(ajuste, &c.Ajuste); err != nil {
			return nil, fmt.Errorf("deserializar ajuste: %w", err)
		}
	}
	return &c, nil
}
