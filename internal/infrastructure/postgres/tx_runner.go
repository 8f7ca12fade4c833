package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lanave/agencias-api/internal/application/cuadre"
	"github.com/lanave/agencias-api/internal/domain/repository"
)

var _ cuadre.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
// El guardado con aprobación depende de esto: el upsert del consolidado y la
// actualización de sesiones confirman o se revierten juntos.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(
	cuadreRepo repository.CuadreRepository,
	cierreRepo repository.CierreRepository,
	transRepo repository.TransaccionRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	cuadreRepo := NewCuadreRepository(tx)
	cierreRepo := NewCierreRepository(tx)
	transRepo := NewTransaccionRepository(tx)

	if err := fn(cuadreRepo, cierreRepo, transRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
