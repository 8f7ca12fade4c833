package repository

import (
	"context"
	"time"

	"github.com/lanave/agencias-api/internal/domain/entity"
)

// FiltroTransacciones delimita una consulta de transacciones.
// Desde/Hasta son inclusivos; SesionIDs vacío = todas las sesiones.
type FiltroTransacciones struct {
	AgenciaID string
	ClienteID string // banqueo: transacciones del cliente mayorista
	ActorID   string // solo filas registradas por este actor (detalle de encargada)
	Desde     time.Time
	Hasta     time.Time
	SesionIDs []string
}

// TransaccionRepository define el puerto de persistencia de transacciones.
// Las transacciones son append-only: solo se crea, se alterna Pagado y se
// reemplazan en bloque las filas de detalle de un actor.
type TransaccionRepository interface {
	Create(ctx context.Context, t *entity.Transaccion) error
	ListBy(ctx context.Context, f FiltroTransacciones) ([]*entity.Transaccion, error)
	MarcarPagado(ctx context.Context, id string, pagado bool) error
	// ReplaceDetalle borra las filas de detalle de (agencia, fecha, actor) e
	// inserta el set nuevo completo. Implementaciones deben ejecutar ambos
	// pasos en una sola transacción para no dejar ventana de estado vacío.
	ReplaceDetalle(ctx context.Context, agenciaID string, fecha time.Time, actorID string, filas []*entity.Transaccion) error
}
