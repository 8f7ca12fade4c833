package cuadre

import (
	"context"
	"time"

	"github.com/lanave/agencias-api/internal/application/dto"
	"github.com/lanave/agencias-api/pkg/logger"
)

// Vigilante reacciona a eventos "cuadre actualizado": cuando otro actor guarda
// la agencia/fecha en pantalla, se re-ejecuta la agregación y se entrega el
// estado reconciliado fresco. Los eventos perdidos no importan: la vista
// siempre reconsulta al entrar.
type Vigilante struct {
	notifier ChangeNotifier
	rec      *Reconciler
	log      *logger.Logger
}

// NewVigilante construye el vigilante.
func NewVigilante(notifier ChangeNotifier, rec *Reconciler, log *logger.Logger) *Vigilante {
	return &Vigilante{notifier: notifier, rec: rec, log: log}
}

// Observar suscribe la agencia/fecha y entrega cada estado recalculado al
// callback. Devuelve la función de cancelación de la suscripción.
func (v *Vigilante) Observar(ctx context.Context, actorID, agenciaID string, fecha time.Time, entrega func(*dto.CuadreTrabajoResponse)) (func(), error) {
	return v.notifier.Suscribir(ctx, agenciaID, fecha, func(ev EventoCambio) {
		estado, err := v.rec.EstadoTrabajo(ctx, actorID, agenciaID, fecha)
		if err != nil {
			v.log.Warn().Err(err).Str("agencia", agenciaID).Msg("re-agregación tras evento falló")
			return
		}
		entrega(estado)
	})
}
