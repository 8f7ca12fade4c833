package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lanave/agencias-api/internal/domain"
	"github.com/lanave/agencias-api/internal/domain/entity"
	"github.com/lanave/agencias-api/internal/domain/repository"
)

var _ repository.BanqueoRepository = (*BanqueoRepo)(nil)

const columnasBanqueo = `id, cliente_id, sistema_id, semana_desde,
	ventas_bs, ventas_usd, premios_bs, premios_usd,
	comision_pct_bs, comision_pct_usd, participacion_pct_bs, participacion_pct_usd,
	lanave_pct_bs, lanave_pct_usd, pagado_bs, pagado_usd, created_at`

// BanqueoRepo implementación postgres de las filas de liquidación banqueo.
// Recibe el pool (no un Querier) porque ReplaceSemana abre su propia
// transacción: el delete y los inserts de la semana van juntos o no van.
type BanqueoRepo struct {
	pool *pgxpool.Pool
}

func NewBanqueoRepository(pool *pgxpool.Pool) *BanqueoRepo {
	return &BanqueoRepo{pool: pool}
}

func (r *BanqueoRepo) ListBySemana(ctx context.Context, clienteID string, semanaDesde time.Time) ([]*entity.TransaccionBanqueo, error) {
	query := `SELECT ` + columnasBanqueo + `
		FROM transacciones_banqueo
		WHERE cliente_id = $1 AND semana_desde = $2
		ORDER BY sistema_id`
	rows, err := r.pool.Query(ctx, query, clienteID, semanaDesde)
	if err != nil {
		return nil, fmt.Errorf("list banqueo semana: %w", err)
	}
	defer rows.Close()

	var list []*entity.TransaccionBanqueo
	for rows.Next() {
		t, err := scanBanqueo(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

// ReplaceSemana reemplaza completas las filas de (cliente, semana): borra el
// set anterior e inserta el nuevo dentro de una transacción, para que una
// semana reguardada nunca conserve filas de sistemas que ya no aplican.
func (r *BanqueoRepo) ReplaceSemana(ctx context.Context, clienteID string, semanaDesde time.Time, filas []*entity.TransaccionBanqueo) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin replace semana: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx,
		`DELETE FROM transacciones_banqueo WHERE cliente_id = $1 AND semana_desde = $2`,
		clienteID, semanaDesde,
	)
	if err != nil {
		return fmt.Errorf("delete semana anterior: %w", err)
	}

	insert := `INSERT INTO transacciones_banqueo (` + columnasBanqueo + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`
	for _, f := range filas {
		_, err = tx.Exec(ctx, insert,
			f.ID, f.ClienteID, f.SistemaID, f.SemanaDesde,
			f.VentasBs, f.VentasUSD, f.PremiosBs, f.PremiosUSD,
			f.ComisionPctBs, f.ComisionPctUSD, f.ParticipacionPctBs, f.ParticipacionPctUSD,
			f.LanavePctBs, f.LanavePctUSD, f.PagadoBs, f.PagadoUSD, f.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert fila banqueo %s: %w", f.SistemaID, err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit replace semana: %w", err)
	}
	return nil
}

// MarcarPagado marca el pago de una fila en una moneda. La otra moneda no se toca.
func (r *BanqueoRepo) MarcarPagado(ctx context.Context, id string, moneda string, pagado bool) error {
	var columna string
	switch moneda {
	case "BS":
		columna = "pagado_bs"
	case "USD":
		columna = "pagado_usd"
	default:
		return fmt.Errorf("%w: moneda %q", domain.ErrInvalidInput, moneda)
	}
	tag, err := r.pool.Exec(ctx,
		`UPDATE transacciones_banqueo SET `+columna+` = $1 WHERE id = $2`,
		pagado, id,
	)
	if err != nil {
		return fmt.Errorf("marcar pagado banqueo: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanBanqueo(row pgx.Row) (*entity.TransaccionBanqueo, error) {
	var t entity.TransaccionBanqueo
	if err := row.Scan(
		&t.ID, &t.ClienteID, &t.SistemaID, &t.SemanaDesde,
		&t.VentasBs, &t.VentasUSD, &t.PremiosBs, &t.PremiosUSD,
		&t.ComisionPctBs, &t.ComisionPctUSD, &t.ParticipacionPctBs, &t.ParticipacionPctUSD,
		&t.LanavePctBs, &t.LanavePctUSD, &t.PagadoBs, &t.PagadoUSD, &t.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, pgx.ErrNoRows
		}
		return nil, fmt.Errorf("scan fila banqueo: %w", err)
	}
	return &t, nil
}
