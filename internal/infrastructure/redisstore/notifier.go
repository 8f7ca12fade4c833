package redisstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/lanave/agencias-api/internal/application/cuadre"
	"github.com/lanave/agencias-api/pkg/logger"
)

// canalCambios es el canal pub/sub de "cuadre actualizado". Un solo canal para
// toda la cadena; el filtrado por agencia/fecha lo hace cada suscriptor.
const canalCambios = "cuadre:actualizado"

var _ cuadre.ChangeNotifier = (*Notifier)(nil)

// Notifier publica y entrega eventos de cambio de cuadre vía Redis pub/sub.
// Entrega best-effort: si el suscriptor pierde un evento, la siguiente carga
// de la vista trae el estado real de todos modos.
type Notifier struct {
	client *redis.Client
	log    *logger.Logger
}

func NewNotifier(client *redis.Client, log *logger.Logger) *Notifier {
	return &Notifier{client: client, log: log}
}

func (n *Notifier) Publicar(ctx context.Context, ev cuadre.EventoCambio) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode evento cambio: %w", err)
	}
	if err := n.client.Publish(ctx, canalCambios, payload).Err(); err != nil {
		return fmt.Errorf("publicar evento cambio: %w", err)
	}
	return nil
}

// Suscribir escucha el canal y llama al callback con los eventos que coinciden
// en agencia y día. Devuelve la función que cierra la suscripción.
func (n *Notifier) Suscribir(ctx context.Context, agenciaID string, fecha time.Time, callback func(cuadre.EventoCambio)) (func(), error) {
	sub := n.client.Subscribe(ctx, canalCambios)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("suscribir canal cambios: %w", err)
	}

	dia := fecha.Format("2006-01-02")
	go func() {
		for msg := range sub.Channel() {
			var ev cuadre.EventoCambio
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				n.log.Warn().Err(err).Msg("evento de cambio ilegible, descartado")
				continue
			}
			if ev.AgenciaID != agenciaID || ev.Fecha.Format("2006-01-02") != dia {
				continue
			}
			callback(ev)
		}
	}()

	return func() { _ = sub.Close() }, nil
}
