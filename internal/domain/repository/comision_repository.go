package repository

import (
	"context"
	"time"

	"github.com/lanave/agencias-api/internal/domain/entity"
)

// SistemaRepository define el puerto del catálogo de sistemas de lotería.
type SistemaRepository interface {
	GetByID(ctx context.Context, id string) (*entity.SistemaLoteria, error)
	ListActivos(ctx context.Context) ([]*entity.SistemaLoteria, error)
	ListSubcategorias(ctx context.Context, padreID string) ([]*entity.SistemaLoteria, error)
}

// ComisionRepository define el puerto de configuración de comisiones y
// participaciones. Los Get devuelven (nil, nil) cuando la fila no existe:
// la ausencia es información que la cascada necesita distinguir.
type ComisionRepository interface {
	GetTasaSistema(ctx context.Context, sistemaID string) (*entity.TasaComision, error)
	UpsertTasaSistema(ctx context.Context, t *entity.TasaComision) error

	GetParticipacionClienteSistema(ctx context.Context, clienteID, sistemaID string) (*entity.ParticipacionClienteSistema, error)
	ListParticipacionesCliente(ctx context.Context, clienteID string) ([]*entity.ParticipacionClienteSistema, error)
	UpsertParticipacionClienteSistema(ctx context.Context, p *entity.ParticipacionClienteSistema) error

	GetComisionBanqueoCliente(ctx context.Context, clienteID string) (*entity.ComisionBanqueoCliente, error)
	UpsertComisionBanqueoCliente(ctx context.Context, c *entity.ComisionBanqueoCliente) error
}

// BanqueoRepository define el puerto de filas de liquidación banqueo.
// ReplaceSemana reemplaza completas las filas de (cliente, semana): delete
// seguido de insert del set nuevo, en una sola transacción, para no dejar
// filas por sistema obsoletas.
type BanqueoRepository interface {
	ListBySemana(ctx context.Context, clienteID string, semanaDesde time.Time) ([]*entity.TransaccionBanqueo, error)
	ReplaceSemana(ctx context.Context, clienteID string, semanaDesde time.Time, filas []*entity.TransaccionBanqueo) error
	MarcarPagado(ctx context.Context, id string, moneda string, pagado bool) error
}

// AgenciaRepository define el puerto del catálogo de agencias y clientes.
type AgenciaRepository interface {
	GetAgencia(ctx context.Context, id string) (*entity.Agencia, error)
	GetCliente(ctx context.Context, id string) (*entity.ClienteBanqueo, error)
}
