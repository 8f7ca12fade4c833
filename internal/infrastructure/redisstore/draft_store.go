package redisstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/lanave/agencias-api/internal/application/cuadre"
	"github.com/lanave/agencias-api/internal/application/dto"
	"github.com/lanave/agencias-api/pkg/config"
)

// TTL de borradores: un cuadre sin enviar más de una semana ya no vale nada,
// el siguiente turno lo rehace desde la agregación.
const ttlBorrador = 7 * 24 * time.Hour

var _ cuadre.DraftStore = (*DraftStore)(nil)

// DraftStore guarda borradores de cuadre en Redis como JSON.
type DraftStore struct {
	client *redis.Client
}

// NewClient crea el cliente Redis compartido por store y notifier.
func NewClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

func NewDraftStore(client *redis.Client) *DraftStore {
	return &DraftStore{client: client}
}

// Get devuelve el borrador de la clave, o (nil, nil) si no hay.
func (s *DraftStore) Get(ctx context.Context, clave cuadre.ClaveBorrador) (*dto.BorradorCuadre, error) {
	val, err := s.client.Get(ctx, clave.String()).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get borrador: %w", err)
	}

	var b dto.BorradorCuadre
	if err := json.Unmarshal([]byte(val), &b); err != nil {
		return nil, fmt.Errorf("decode borrador: %w", err)
	}
	return &b, nil
}

func (s *DraftStore) Set(ctx context.Context, clave cuadre.ClaveBorrador, b *dto.BorradorCuadre) error {
	if b == nil {
		return nil
	}
	payload, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("encode borrador: %w", err)
	}
	if err := s.client.Set(ctx, clave.String(), payload, ttlBorrador).Err(); err != nil {
		return fmt.Errorf("set borrador: %w", err)
	}
	return nil
}

func (s *DraftStore) Clear(ctx context.Context, clave cuadre.ClaveBorrador) error {
	if err := s.client.Del(ctx, clave.String()).Err(); err != nil {
		return fmt.Errorf("clear borrador: %w", err)
	}
	return nil
}
