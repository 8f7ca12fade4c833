package configuracion

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lanave/agencias-api/internal/application/dto"
	"github.com/lanave/agencias-api/internal/domain"
	"github.com/lanave/agencias-api/internal/domain/commission"
	"github.com/lanave/agencias-api/internal/domain/entity"
	"github.com/lanave/agencias-api/internal/domain/repository"
)

// UseCase administra la configuración de comisiones y participaciones.
// Toda validación ocurre antes de cualquier escritura.
type UseCase struct {
	comisionRepo repository.ComisionRepository
	sistemaRepo  repository.SistemaRepository
	agenciaRepo  repository.AgenciaRepository
}

// NewUseCase construye el caso de uso.
func NewUseCase(comisionRepo repository.ComisionRepository, sistemaRepo repository.SistemaRepository, agenciaRepo repository.AgenciaRepository) *UseCase {
	return &UseCase{comisionRepo: comisionRepo, sistemaRepo: sistemaRepo, agenciaRepo: agenciaRepo}
}

// TasasEfectivas expone la cascada resuelta para (sistema, cliente opcional).
func (uc *UseCase) TasasEfectivas(ctx context.Context, sistemaID, clienteID string) (*commission.TasasEfectivas, error) {
	sistema, err := uc.sistemaRepo.GetByID(ctx, sistemaID)
	if err != nil {
		return nil, fmt.Errorf("consultar sistema: %w", err)
	}
	if sistema == nil {
		return nil, domain.ErrNotFound
	}

	tasaSistema, err := uc.comisionRepo.GetTasaSistema(ctx, sistemaID)
	if err != nil {
		return nil, fmt.Errorf("consultar tasa del sistema: %w", err)
	}

	var clienteSistema *entity.ParticipacionClienteSistema
	var cfgCliente *entity.ComisionBanqueoCliente
	if clienteID != "" {
		clienteSistema, err = uc.comisionRepo.GetParticipacionClienteSistema(ctx, clienteID, sistemaID)
		if err != nil {
			return nil, fmt.Errorf("consultar participación cliente/sistema: %w", err)
		}
		cfgCliente, err = uc.comisionRepo.GetComisionBanqueoCliente(ctx, clienteID)
		if err != nil {
			return nil, fmt.Errorf("consultar comisión banqueo: %w", err)
		}
	}

	tasas := commission.Resolver(clienteSistema, cfgCliente, tasaSistema)
	return &tasas, nil
}

// GuardarTasaSistema configura la tasa global de un sistema.
func (uc *UseCase) GuardarTasaSistema(ctx context.Context, sistemaID string, req dto.TasaSistemaRequest) error {
	sistema, err := uc.sistemaRepo.GetByID(ctx, sistemaID)
	if err != nil {
		return fmt.Errorf("consultar sistema: %w", err)
	}
	if sistema == nil {
		return domain.ErrNotFound
	}

	comBs, err := porcentaje(req.ComisionBs)
	if err != nil {
		return err
	}
	comUSD, err := porcentaje(req.ComisionUSD)
	if err != nil {
		return err
	}
	utilBs, err := porcentaje(req.UtilidadBs)
	if err != nil {
		return err
	}
	utilUSD, err := porcentaje(req.UtilidadUSD)
	if err != nil {
		return err
	}

	actual, err := uc.comisionRepo.GetTasaSistema(ctx, sistemaID)
	if err != nil {
		return fmt.Errorf("consultar tasa actual: %w", err)
	}
	tasa := &entity.TasaComision{
		ID:          uuid.NewString(),
		SistemaID:   sistemaID,
		ComisionBs:  comBs,
		ComisionUSD: comUSD,
		UtilidadBs:  utilBs,
		UtilidadUSD: utilUSD,
		UpdatedAt:   time.Now(),
	}
	if actual != nil {
		tasa.ID = actual.ID
	}
	return uc.comisionRepo.UpsertTasaSistema(ctx, tasa)
}

// ListarParticipaciones devuelve los overrides por sistema de un cliente.
func (uc *UseCase) ListarParticipaciones(ctx context.Context, clienteID string) ([]dto.ParticipacionClienteResponse, error) {
	cliente, err := uc.agenciaRepo.GetCliente(ctx, clienteID)
	if err != nil {
		return nil, fmt.Errorf("consultar cliente: %w", err)
	}
	if cliente == nil {
		return nil, domain.ErrNotFound
	}

	filas, err := uc.comisionRepo.ListParticipacionesCliente(ctx, clienteID)
	if err != nil {
		return nil, fmt.Errorf("listar participaciones: %w", err)
	}
	out := make([]dto.ParticipacionClienteResponse, 0, len(filas))
	for _, p := range filas {
		out = append(out, dto.ParticipacionClienteResponse{
			SistemaID:              p.SistemaID,
			ComisionClienteBs:      p.ComisionClienteBs.Puntero(),
			ComisionClienteUSD:     p.ComisionClienteUSD.Puntero(),
			ParticipacionBs:        p.ParticipacionBs.Puntero(),
			ParticipacionUSD:       p.ParticipacionUSD.Puntero(),
			ParticipacionLanaveBs:  p.ParticipacionLanaveBs.Puntero(),
			ParticipacionLanaveUSD: p.ParticipacionLanaveUSD.Puntero(),
		})
	}
	return out, nil
}

// GuardarParticipacionCliente configura el override de un (cliente, sistema).
func (uc *UseCase) GuardarParticipacionCliente(ctx context.Context, clienteID string, req dto.ParticipacionClienteRequest) error {
	cliente, err := uc.agenciaRepo.GetCliente(ctx, clienteID)
	if err != nil {
		return fmt.Errorf("consultar cliente: %w", err)
	}
	if cliente == nil {
		return domain.ErrNotFound
	}
	sistema, err := uc.sistemaRepo.GetByID(ctx, req.SistemaID)
	if err != nil {
		return fmt.Errorf("consultar sistema: %w", err)
	}
	if sistema == nil {
		return domain.ErrNotFound
	}

	campos := []dto.PorcentajeOpt{
		req.ComisionClienteBs, req.ComisionClienteUSD,
		req.ParticipacionBs, req.ParticipacionUSD,
		req.ParticipacionLanaveBs, req.ParticipacionLanaveUSD,
	}
	valores := make([]entity.Porcentaje, len(campos))
	for i, c := range campos {
		v, err := porcentaje(c)
		if err != nil {
			return err
		}
		valores[i] = v
	}

	actual, err := uc.comisionRepo.GetParticipacionClienteSistema(ctx, clienteID, req.SistemaID)
	if err != nil {
		return fmt.Errorf("consultar participación actual: %w", err)
	}
	p := &entity.ParticipacionClienteSistema{
		ID:                     uuid.NewString(),
		ClienteID:              clienteID,
		SistemaID:              req.SistemaID,
		ComisionClienteBs:      valores[0],
		ComisionClienteUSD:     valores[1],
		ParticipacionBs:        valores[2],
		ParticipacionUSD:       valores[3],
		ParticipacionLanaveBs:  valores[4],
		ParticipacionLanaveUSD: valores[5],
		UpdatedAt:              time.Now(),
	}
	if actual != nil {
		p.ID = actual.ID
	}
	return uc.comisionRepo.UpsertParticipacionClienteSistema(ctx, p)
}

// GuardarComisionBanqueo configura la participación Lanave global de un cliente.
func (uc *UseCase) GuardarComisionBanqueo(ctx context.Context, clienteID string, req dto.ComisionBanqueoRequest) error {
	cliente, err := uc.agenciaRepo.GetCliente(ctx, clienteID)
	if err != nil {
		return fmt.Errorf("consultar cliente: %w", err)
	}
	if cliente == nil {
		return domain.ErrNotFound
	}

	lanBs, err := porcentaje(req.ParticipacionLanaveBs)
	if err != nil {
		return err
	}
	lanUSD, err := porcentaje(req.ParticipacionLanaveUSD)
	if err != nil {
		return err
	}

	actual, err := uc.comisionRepo.GetComisionBanqueoCliente(ctx, clienteID)
	if err != nil {
		return fmt.Errorf("consultar comisión actual: %w", err)
	}
	c := &entity.ComisionBanqueoCliente{
		ID:                     uuid.NewString(),
		ClienteID:              clienteID,
		ParticipacionLanaveBs:  lanBs,
		ParticipacionLanaveUSD: lanUSD,
		UpdatedAt:              time.Now(),
	}
	if actual != nil {
		c.ID = actual.ID
	}
	return uc.comisionRepo.UpsertComisionBanqueoCliente(ctx, c)
}

// porcentaje convierte el campo opcional del request: nil = ausente,
// "0" = override explícito en cero. Valores fuera de [0,100] se rechazan
// antes de cualquier escritura.
func porcentaje(s dto.PorcentajeOpt) (entity.Porcentaje, error) {
	if s == nil {
		return entity.PorcentajeAusente(), nil
	}
	v, err := decimal.NewFromString(*s)
	if err != nil {
		return entity.Porcentaje{}, domain.ErrInvalidInput
	}
	p := entity.NuevoPorcentaje(v)
	if !p.Valido() {
		return entity.Porcentaje{}, domain.ErrPorcentajeRango
	}
	return p, nil
}
