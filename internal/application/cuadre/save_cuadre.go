package cuadre

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/lanave/agencias-api/internal/application/dto"
	"github.com/lanave/agencias-api/internal/domain"
	"github.com/lanave/agencias-api/internal/domain/entity"
	"github.com/lanave/agencias-api/internal/domain/repository"
	"github.com/lanave/agencias-api/internal/domain/review"
	"github.com/lanave/agencias-api/pkg/logger"
)

// GuardarCuadreUseCase persiste el consolidado de una agencia/fecha:
// upsert por clave, reemplazo del detalle por sistema y, si se pide,
// transición de revisión — todo dentro de una misma transacción.
type GuardarCuadreUseCase struct {
	tx       TxRunner
	drafts   DraftStore
	notifier ChangeNotifier
	log      *logger.Logger
}

// NewGuardarCuadreUseCase construye el caso de uso.
func NewGuardarCuadreUseCase(tx TxRunner, drafts DraftStore, notifier ChangeNotifier, log *logger.Logger) *GuardarCuadreUseCase {
	return &GuardarCuadreUseCase{tx: tx, drafts: drafts, notifier: notifier, log: log}
}

// Guardar valida, persiste y (opcionalmente) transiciona la revisión.
//
// La aprobación es atómica desde el punto de vista del caller: si el upsert
// del consolidado o la actualización de las sesiones falla, la transacción
// se revierte y no queda aprobación parcial. El borrador local se limpia
// inmediatamente tras un guardado exitoso para que no gane precedencia
// sobre lo recién confirmado.
func (uc *GuardarCuadreUseCase) Guardar(ctx context.Context, actorID, agenciaID string, fecha time.Time, req dto.GuardarCuadreRequest) (*entity.CuadreResumen, error) {
	if err := validar(req); err != nil {
		return nil, err
	}

	var guardado *entity.CuadreResumen
	err := uc.tx.Run(ctx, func(
		cuadreRepo repository.CuadreRepository,
		cierreRepo repository.CierreRepository,
		transRepo repository.TransaccionRepository,
	) error {
		actual, err := cuadreRepo.GetConsolidado(ctx, agenciaID, fecha)
		if err != nil {
			return fmt.Errorf("consultar consolidado: %w", err)
		}
		if actual != nil && actual.Aprobado() {
			return domain.ErrCuadreAprobado
		}

		resumen := armarResumen(actual, actorID, agenciaID, fecha, req)

		if req.Revision != "" {
			estadoActual := entity.RevisionPendiente
			if actual != nil {
				estadoActual = actual.EstadoRevision
			}
			nuevo, efectos, err := review.Transicionar(estadoActual, review.Evento{
				Tipo:        req.Revision,
				Observacion: req.Observacion,
				RevisorID:   actorID,
			})
			if err != nil {
				return err
			}
			resumen.EstadoRevision = nuevo
			resumen.RevisadoPor = actorID
			now := time.Now()
			resumen.RevisadoEn = &now
			if efectos.LimpiarObservacion {
				resumen.Observaciones = ""
			}
			if efectos.NuevaObservacion != "" {
				resumen.Observaciones = efectos.NuevaObservacion
			}
			// Las sesiones de la agencia/fecha siguen el estado del consolidado;
			// dentro de la misma transacción para que no haya aprobación a medias.
			if efectos.MarcarSesionesAprobadas || efectos.NotificarTaquillera {
				if err := cierreRepo.MarcarRevision(ctx, agenciaID, fecha, nuevo); err != nil {
					return fmt.Errorf("marcar sesiones: %w", err)
				}
			}
		}

		if err := upsert(ctx, cuadreRepo, actual, resumen); err != nil {
			return err
		}

		if len(req.Sistemas) > 0 {
			filas := detalleDesdeFilas(agenciaID, actorID, fecha, req.Sistemas)
			if err := transRepo.ReplaceDetalle(ctx, agenciaID, fecha, actorID, filas); err != nil {
				return fmt.Errorf("reemplazar detalle: %w", err)
			}
		}

		guardado = resumen
		return nil
	})
	if err != nil {
		return nil, err
	}

	// El borrador deja de ser fuente en cuanto hay datos confirmados más nuevos.
	if err := uc.drafts.Clear(ctx, ClaveBorradorDia(actorID, agenciaID, fecha)); err != nil {
		uc.log.Warn().Err(err).Str("agencia", agenciaID).Msg("no se pudo limpiar el borrador")
	}

	// Notificación push fire-and-forget; los clientes reconsultan al entrar.
	ev := EventoCambio{AgenciaID: agenciaID, Fecha: fecha, UsuarioID: actorID}
	if err := uc.notifier.Publicar(ctx, ev); err != nil {
		uc.log.Warn().Err(err).Str("agencia", agenciaID).Msg("no se pudo publicar el cambio")
	}

	return guardado, nil
}

// MarcarPago alterna la bandera de pago de una deuda o premio pendiente.
// El cambio se refleja en el siguiente estado reconciliado: la fila deja de
// sumar (o vuelve a sumar) a los totales del día.
func (uc *GuardarCuadreUseCase) MarcarPago(ctx context.Context, req dto.MarcarPagoTransaccionRequest) error {
	if req.TransaccionID == "" {
		return domain.ErrInvalidInput
	}
	return uc.tx.Run(ctx, func(
		_ repository.CuadreRepository,
		_ repository.CierreRepository,
		transRepo repository.TransaccionRepository,
	) error {
		return transRepo.MarcarPagado(ctx, req.TransaccionID, req.Pagado)
	})
}

// GuardarBorrador persiste el borrador local del actor para la clave dada.
func (uc *GuardarCuadreUseCase) GuardarBorrador(ctx context.Context, actorID, agenciaID string, fecha time.Time, b *dto.BorradorCuadre) error {
	b.GuardadoEn = time.Now()
	return uc.drafts.Set(ctx, ClaveBorradorDia(actorID, agenciaID, fecha), b)
}

// DescartarBorrador elimina el borrador local del actor para la clave dada.
func (uc *GuardarCuadreUseCase) DescartarBorrador(ctx context.Context, actorID, agenciaID string, fecha time.Time) error {
	return uc.drafts.Clear(ctx, ClaveBorradorDia(actorID, agenciaID, fecha))
}

func validar(req dto.GuardarCuadreRequest) error {
	if req.Revision == review.EventoRechazar && req.Observacion == "" {
		return domain.ErrSinObservacion
	}
	if req.Revision != "" {
		if req.Revision != review.EventoAprobar && req.Revision != review.EventoRechazar && req.Revision != review.EventoReenviar {
			return domain.ErrInvalidInput
		}
		// Una acción de revisión puede venir sin montos (ej. rechazo puro).
		return nil
	}
	if tieneMontos(req) {
		return nil
	}
	return domain.ErrMontoRequerido
}

func tieneMontos(req dto.GuardarCuadreRequest) bool {
	if !req.EfectivoBs.IsZero() || !req.EfectivoUSD.IsZero() {
		return true
	}
	for _, f := range req.Sistemas {
		if !f.VentasBs.IsZero() || !f.VentasUSD.IsZero() || !f.PremiosBs.IsZero() || !f.PremiosUSD.IsZero() {
			return true
		}
	}
	return !req.PremiosPendientesBs.IsZero() || !req.PremiosPendientesUSD.IsZero() ||
		!req.Ajuste.MontoBs.IsZero() || !req.Ajuste.MontoUSD.IsZero()
}

// armarResumen construye el consolidado a guardar sobre el existente (si hay).
func armarResumen(actual *entity.CuadreResumen, actorID, agenciaID string, fecha time.Time, req dto.GuardarCuadreRequest) *entity.CuadreResumen {
	now := time.Now()
	resumen := &entity.CuadreResumen{
		ID:             uuid.NewString(),
		AgenciaID:      agenciaID,
		Fecha:          fecha,
		EstadoRevision: entity.RevisionPendiente,
		CreatedAt:      now,
	}
	if actual != nil {
		resumen.ID = actual.ID
		resumen.EstadoRevision = actual.EstadoRevision
		resumen.Observaciones = actual.Observaciones
		resumen.RevisadoPor = actual.RevisadoPor
		resumen.RevisadoEn = actual.RevisadoEn
		resumen.CreatedAt = actual.CreatedAt
	}

	// Una acción de revisión sin montos no debe borrar lo ya guardado.
	if actual != nil && req.Revision != "" && !tieneMontos(req) {
		montos := *actual
		montos.ID, montos.EstadoRevision = resumen.ID, resumen.EstadoRevision
		montos.Observaciones = resumen.Observaciones
		montos.RevisadoPor, montos.RevisadoEn = resumen.RevisadoPor, resumen.RevisadoEn
		montos.UpdatedAt = now
		return &montos
	}

	for _, f := range req.Sistemas {
		if f.SoloLectura {
			continue
		}
		resumen.VentasBs = resumen.VentasBs.Add(f.VentasBs)
		resumen.VentasUSD = resumen.VentasUSD.Add(f.VentasUSD)
		resumen.PremiosBs = resumen.PremiosBs.Add(f.PremiosBs)
		resumen.PremiosUSD = resumen.PremiosUSD.Add(f.PremiosUSD)
	}
	resumen.EfectivoBs = req.EfectivoBs
	resumen.EfectivoUSD = req.EfectivoUSD
	resumen.TasaCambio = req.TasaCambio
	resumen.PremiosPendientesBs = req.PremiosPendientesBs
	resumen.PremiosPendientesUSD = req.PremiosPendientesUSD
	resumen.Ajuste = req.Ajuste
	resumen.UpdatedAt = now
	return resumen
}

// upsert aplica find-or-create: update si la fila existía; si el update
// tropieza con una fila desaparecida (conflicto), cae a insert porque la
// operación es idempotente por clave.
func upsert(ctx context.Context, repo repository.CuadreRepository, actual, resumen *entity.CuadreResumen) error {
	if actual == nil {
		if err := repo.Insert(ctx, resumen); err != nil {
			return fmt.Errorf("insertar consolidado: %w", err)
		}
		return nil
	}
	if err := repo.Update(ctx, resumen); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			if err := repo.Insert(ctx, resumen); err != nil {
				return fmt.Errorf("insertar consolidado tras conflicto: %w", err)
			}
			return nil
		}
		return fmt.Errorf("actualizar consolidado: %w", err)
	}
	return nil
}

// detalleDesdeFilas materializa las filas por sistema como transacciones de
// detalle de la encargada (una de venta y una de premio por sistema con monto).
func detalleDesdeFilas(agenciaID, actorID string, fecha time.Time, filas []dto.FilaSistema) []*entity.Transaccion {
	var out []*entity.Transaccion
	now := time.Now()
	for _, f := range filas {
		if f.SoloLectura {
			continue
		}
		if !f.VentasBs.IsZero() || !f.VentasUSD.IsZero() {
			out = append(out, &entity.Transaccion{
				ID:        uuid.NewString(),
				AgenciaID: agenciaID,
				SistemaID: f.SistemaID,
				Fecha:     fecha,
				Tipo:      entity.TipoVenta,
				MontoBs:   f.VentasBs,
				MontoUSD:  f.VentasUSD,
				CreadaPor: actorID,
				CreatedAt: now,
			})
		}
		if !f.PremiosBs.IsZero() || !f.PremiosUSD.IsZero() {
			out = append(out, &entity.Transaccion{
				ID:        uuid.NewString(),
				AgenciaID: agenciaID,
				SistemaID: f.SistemaID,
				Fecha:     fecha,
				Tipo:      entity.TipoPremio,
				MontoBs:   f.PremiosBs,
				MontoUSD:  f.PremiosUSD,
				CreadaPor: actorID,
				CreatedAt: now,
			})
		}
	}
	return out
}
