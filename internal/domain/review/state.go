package review

import (
	"github.com/lanave/agencias-api/internal/domain"
	"github.com/lanave/agencias-api/internal/domain/entity"
)

// Evento es una acción de revisión sobre el cuadre consolidado de un día.
type Evento struct {
	Tipo        string // "aprobar" | "rechazar" | "reenviar"
	Observacion string // obligatoria al rechazar
	RevisorID   string
}

// Eventos de revisión.
const (
	EventoAprobar  = "aprobar"
	EventoRechazar = "rechazar"
	EventoReenviar = "reenviar" // la taquillera corrige y vuelve a enviar
)

// Efectos son las acciones colaterales que el caller debe ejecutar en la misma
// transacción que el cambio de estado; si alguna falla, nada se persiste.
type Efectos struct {
	MarcarSesionesAprobadas bool   // al aprobar: las sesiones de la agencia/fecha quedan aprobadas
	NotificarTaquillera     bool   // al rechazar: la observación viaja a la taquillera
	LimpiarObservacion      bool   // al aprobar se descarta cualquier observación previa
	NuevaObservacion        string // observación a persistir (rechazo)
}

// Transicionar es la función pura de la máquina de estados de revisión:
// (estado, evento) -> (estado, efectos, error).
//
//	pendiente --aprobar--> aprobado     (terminal: no existe "desaprobar")
//	pendiente --rechazar--> rechazado   (requiere observación no vacía)
//	rechazado --reenviar--> pendiente
func Transicionar(estado string, ev Evento) (string, Efectos, error) {
	switch estado {
	case entity.RevisionPendiente:
		switch ev.Tipo {
		case EventoAprobar:
			return entity.RevisionAprobado, Efectos{
				MarcarSesionesAprobadas: true,
				LimpiarObservacion:      true,
			}, nil
		case EventoRechazar:
			if ev.Observacion == "" {
				return estado, Efectos{}, domain.ErrSinObservacion
			}
			return entity.RevisionRechazado, Efectos{
				NotificarTaquillera: true,
				NuevaObservacion:    ev.Observacion,
			}, nil
		}
	case entity.RevisionRechazado:
		// Un cuadre rechazado debe reenviarse (volver a pendiente) antes de
		// poder aprobarse o rechazarse de nuevo.
		if ev.Tipo == EventoReenviar {
			return entity.RevisionPendiente, Efectos{}, nil
		}
	case entity.RevisionAprobado:
		// Terminal: cualquier evento sobre un cuadre aprobado es conflicto.
		return estado, Efectos{}, domain.ErrCuadreAprobado
	}
	return estado, Efectos{}, domain.ErrConflict
}
