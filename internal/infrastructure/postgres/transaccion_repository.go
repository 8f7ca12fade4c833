package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/lanave/agencias-api/internal/domain"
	"github.com/lanave/agencias-api/internal/domain/entity"
	"github.com/lanave/agencias-api/internal/domain/repository"
)

var _ repository.TransaccionRepository = (*TransaccionRepo)(nil)

// TransaccionRepo implementación de TransaccionRepository (usable con pool o tx).
type TransaccionRepo struct {
	q Querier
}

// NewTransaccionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTransaccionRepository(q Querier) *TransaccionRepo {
	return &TransaccionRepo{q: q}
}

const columnasTransaccion = `
	id, agencia_id, sesion_id, sistema_id, cliente_id, fecha, tipo, categoria,
	direccion, monto_bs, monto_usd, pagado, descripcion, creada_por, created_at`

// Create persiste una nueva transacción.
func (r *TransaccionRepo) Create(ctx context.Context, t *entity.Transaccion) error {
	query := `
		INSERT INTO transacciones (` + columnasTransaccion + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(ctx, query,
		t.ID, t.AgenciaID, nullIfEmpty(t.SesionID), nullIfEmpty(t.SistemaID), nullIfEmpty(t.ClienteID),
		t.Fecha, t.Tipo, nullIfEmpty(t.Categoria), nullIfEmpty(t.Direccion),
		t.MontoBs, t.MontoUSD, t.Pagado, t.Descripcion, t.CreadaPor, t.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert transaccion: %w", err)
	}
	return nil
}

// ListBy lista transacciones según el filtro (agencia o cliente, rango de
// fechas, sesiones, actor).
func (r *TransaccionRepo) ListBy(ctx context.Context, f repository.FiltroTransacciones) ([]*entity.Transaccion, error) {
	query := `
		SELECT ` + columnasTransaccion + `
		FROM transacciones
		WHERE fecha >= $1 AND fecha <= $2`
	args := []any{f.Desde, f.Hasta}

	if f.AgenciaID != "" {
		args = append(args, f.AgenciaID)
		query += fmt.Sprintf(" AND agencia_id = $%d", len(args))
	}
	if f.ClienteID != "" {
		args = append(args, f.ClienteID)
		query += fmt.Sprintf(" AND cliente_id = $%d", len(args))
	}
	if f.ActorID != "" {
		args = append(args, f.ActorID)
		query += fmt.Sprintf(" AND creada_por = $%d", len(args))
	}
	if len(f.SesionIDs) > 0 {
		args = append(args, f.SesionIDs)
		query += fmt.Sprintf(" AND sesion_id = ANY($%d)", len(args))
	}
	query += " ORDER BY created_at"

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transacciones: %w", err)
	}
	defer rows.Close()

	var list []*entity.Transaccion
	for rows.Next() {
		var t entity.Transaccion
		var sesionID, sistemaID, clienteID, categoria, direccion *string
		if err := rows.Scan(
			&t.ID, &t.AgenciaID, &sesionID, &sistemaID, &clienteID, &t.Fecha,
			&t.Tipo, &categoria, &direccion, &t.MontoBs, &t.MontoUSD,
			&t.Pagado, &t.Descripcion, &t.CreadaPor, &t.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan transaccion: %w", err)
		}
		t.SesionID = deref(sesionID)
		t.SistemaID = deref(sistemaID)
		t.ClienteID = deref(clienteID)
		t.Categoria = deref(categoria)
		t.Direccion = deref(direccion)
		list = append(list, &t)
	}
	return list, rows.Err()
}

// MarcarPagado alterna la bandera de pago de una deuda o premio pendiente.
func (r *TransaccionRepo) MarcarPagado(ctx context.Context, id string, pagado bool) error {
	tag, err := r.q.Exec(ctx, `UPDATE transacciones SET pagado = $2 WHERE id = $1`, id, pagado)
	if err != nil {
		return fmt.Errorf("marcar pagado: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ReplaceDetalle borra las filas de detalle de (agencia, fecha, actor) e
// inserta el set nuevo. Debe ejecutarse con un Querier transaccional (TxRunner)
// para que el borrado y la inserción confirmen juntos.
func (r *TransaccionRepo) ReplaceDetalle(ctx context.Context, agenciaID string, fecha time.Time, actorID string, filas []*entity.Transaccion) error {
	_, err := r.q.Exec(ctx, `
		DELETE FROM transacciones
		WHERE agencia_id = $1 AND fecha = $2 AND creada_por = $3 AND sesion_id IS NULL`,
		agenciaID, fecha, actorID,
	)
	if err != nil {
		return fmt.Errorf("delete detalle: %w", err)
	}
	for _, t := range filas {
		if err := r.Create(ctx, t); err != nil {
			return err
		}
	}
	return nil
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
