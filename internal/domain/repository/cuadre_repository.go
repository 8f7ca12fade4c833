package repository

import (
	"context"
	"time"

	"github.com/lanave/agencias-api/internal/domain/entity"
)

// CierreRepository define el puerto de persistencia de cierres de sesión.
type CierreRepository interface {
	Upsert(ctx context.Context, c *entity.CierreDiario) error
	ListByAgenciaFecha(ctx context.Context, agenciaID string, desde, hasta time.Time) ([]*entity.CierreDiario, error)
	GetBySesionFecha(ctx context.Context, sesionID string, fecha time.Time) (*entity.CierreDiario, error)
	// MarcarRevision actualiza el estado de revisión de todas las sesiones de
	// la agencia en la fecha (efecto de aprobar/rechazar el consolidado).
	MarcarRevision(ctx context.Context, agenciaID string, fecha time.Time, estado string) error
}

// CuadreRepository define el puerto de persistencia de resúmenes de cuadre.
// El consolidado (sesión vacía) es único por (agencia, fecha): el guardado es
// find-by-key y luego update-or-insert, nunca insert ciego.
type CuadreRepository interface {
	GetConsolidado(ctx context.Context, agenciaID string, fecha time.Time) (*entity.CuadreResumen, error)
	GetPorSesion(ctx context.Context, agenciaID, sesionID string, fecha time.Time) (*entity.CuadreResumen, error)
	ListByAgenciaRango(ctx context.Context, agenciaID string, desde, hasta time.Time) ([]*entity.CuadreResumen, error)
	Insert(ctx context.Context, c *entity.CuadreResumen) error
	Update(ctx context.Context, c *entity.CuadreResumen) error
}
