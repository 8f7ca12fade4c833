package cuadre

import (
	"context"
	"fmt"
	"time"

	"github.com/lanave/agencias-api/internal/application/dto"
	"github.com/lanave/agencias-api/internal/domain/repository"
)

// ClaveBorrador identifica un borrador local: actor + alcance (agencia o
// cliente) + fecha o semana. El alcance evita que el borrador de una agencia
// contamine la vista de otra.
type ClaveBorrador struct {
	ActorID string
	Alcance string // agencia:<id> | cliente:<id>
	Fecha   string // YYYY-MM-DD del día, o lunes de la semana
}

// String produce la clave plana usada por el store.
func (k ClaveBorrador) String() string {
	return fmt.Sprintf("borrador:%s:%s:%s", k.ActorID, k.Alcance, k.Fecha)
}

// ClaveBorradorDia construye la clave de un borrador de cuadre diario.
func ClaveBorradorDia(actorID, agenciaID string, fecha time.Time) ClaveBorrador {
	return ClaveBorrador{
		ActorID: actorID,
		Alcance: "agencia:" + agenciaID,
		Fecha:   fecha.Format("2006-01-02"),
	}
}

// DraftStore guarda borradores no enviados. Get devuelve (nil, nil) en miss.
// Tras un guardado exitoso el caller DEBE limpiar el borrador de esa clave
// para que no gane precedencia sobre datos ya confirmados en la próxima carga.
type DraftStore interface {
	Get(ctx context.Context, clave ClaveBorrador) (*dto.BorradorCuadre, error)
	Set(ctx context.Context, clave ClaveBorrador, b *dto.BorradorCuadre) error
	Clear(ctx context.Context, clave ClaveBorrador) error
}

// EventoCambio es la notificación "cuadre actualizado" publicada tras un guardado.
type EventoCambio struct {
	AgenciaID string    `json:"agencia_id"`
	Fecha     time.Time `json:"fecha"`
	UsuarioID string    `json:"usuario_id"`
}

// ChangeNotifier publica y entrega eventos de cambio. Push fire-and-forget:
// perder eventos es tolerable porque el cliente siempre reconsulta al entrar.
type ChangeNotifier interface {
	Publicar(ctx context.Context, ev EventoCambio) error
	// Suscribir registra un callback para eventos cuyo agencia/fecha coinciden
	// con el alcance; devuelve una función de cancelación.
	Suscribir(ctx context.Context, agenciaID string, fecha time.Time, callback func(EventoCambio)) (func(), error)
}

// TxRunner ejecuta callbacks dentro de una transacción del almacén de registros.
// El guardado con aprobación usa Run para que el upsert del consolidado y la
// actualización de sesiones fallen o confirmen juntos.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		cuadreRepo repository.CuadreRepository,
		cierreRepo repository.CierreRepository,
		transRepo repository.TransaccionRepository,
	) error) error
}
