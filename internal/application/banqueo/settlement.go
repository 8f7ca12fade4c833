package banqueo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	appcuadre "github.com/lanave/agencias-api/internal/application/cuadre"
	"github.com/lanave/agencias-api/internal/application/dto"
	"github.com/lanave/agencias-api/internal/domain"
	"github.com/lanave/agencias-api/internal/domain/commission"
	"github.com/lanave/agencias-api/internal/domain/entity"
	"github.com/lanave/agencias-api/internal/domain/money"
	"github.com/lanave/agencias-api/internal/domain/repository"
)

// SettlementUseCase liquida la semana de un cliente banqueo: agrega ventas y
// premios por sistema, resuelve la cascada de porcentajes y persiste las filas
// de liquidación reemplazándolas completas.
type SettlementUseCase struct {
	agg          *appcuadre.Aggregator
	comisionRepo repository.ComisionRepository
	sistemaRepo  repository.SistemaRepository
	banqueoRepo  repository.BanqueoRepository
	agenciaRepo  repository.AgenciaRepository
}

// NewSettlementUseCase construye el caso de uso.
func NewSettlementUseCase(
	agg *appcuadre.Aggregator,
	comisionRepo repository.ComisionRepository,
	sistemaRepo repository.SistemaRepository,
	banqueoRepo repository.BanqueoRepository,
	agenciaRepo repository.AgenciaRepository,
) *SettlementUseCase {
	return &SettlementUseCase{
		agg:          agg,
		comisionRepo: comisionRepo,
		sistemaRepo:  sistemaRepo,
		banqueoRepo:  banqueoRepo,
		agenciaRepo:  agenciaRepo,
	}
}

// Previsualizar calcula la liquidación de la semana sin persistir nada.
func (uc *SettlementUseCase) Previsualizar(ctx context.Context, clienteID string, semanaDesde time.Time) (*dto.LiquidacionSemanaResponse, error) {
	lineas, err := uc.liquidar(ctx, clienteID, semanaDesde)
	if err != nil {
		return nil, err
	}
	existentes, err := uc.banqueoRepo.ListBySemana(ctx, clienteID, semanaDesde)
	if err != nil {
		return nil, fmt.Errorf("listar filas banqueo: %w", err)
	}
	return armarRespuesta(clienteID, semanaDesde, lineas, existentes), nil
}

// Guardar liquida y reemplaza las filas de (cliente, semana) — delete seguido
// de insert del set completo, en una sola transacción del repositorio, para
// que nunca queden filas por sistema obsoletas ni una ventana vacía visible.
// Las banderas de pago de filas ya existentes se conservan por sistema.
func (uc *SettlementUseCase) Guardar(ctx context.Context, clienteID string, semanaDesde time.Time) (*dto.LiquidacionSemanaResponse, error) {
	lineas, err := uc.liquidar(ctx, clienteID, semanaDesde)
	if err != nil {
		return nil, err
	}

	existentes, err := uc.banqueoRepo.ListBySemana(ctx, clienteID, semanaDesde)
	if err != nil {
		return nil, fmt.Errorf("listar filas banqueo: %w", err)
	}
	pagosPrevios := make(map[string]*entity.TransaccionBanqueo, len(existentes))
	for _, e := range existentes {
		pagosPrevios[e.SistemaID] = e
	}

	now := time.Now()
	filas := make([]*entity.TransaccionBanqueo, 0, len(lineas))
	for _, l := range lineas {
		fila := &entity.TransaccionBanqueo{
			ID:                  uuid.NewString(),
			ClienteID:           clienteID,
			SistemaID:           l.SistemaID,
			SemanaDesde:         semanaDesde,
			VentasBs:            l.VentasBs,
			VentasUSD:           l.VentasUSD,
			PremiosBs:           l.PremiosBs,
			PremiosUSD:          l.PremiosUSD,
			ComisionPctBs:       l.Tasas.ComisionBs,
			ComisionPctUSD:      l.Tasas.ComisionUSD,
			ParticipacionPctBs:  l.Tasas.ParticipacionBs,
			ParticipacionPctUSD: l.Tasas.ParticipacionUSD,
			LanavePctBs:         l.Tasas.LanaveBs,
			LanavePctUSD:        l.Tasas.LanaveUSD,
			CreatedAt:           now,
		}
		if previa, ok := pagosPrevios[l.SistemaID]; ok {
			fila.PagadoBs = previa.PagadoBs
			fila.PagadoUSD = previa.PagadoUSD
		}
		filas = append(filas, fila)
	}

	if err := uc.banqueoRepo.ReplaceSemana(ctx, clienteID, semanaDesde, filas); err != nil {
		return nil, fmt.Errorf("reemplazar semana banqueo: %w", err)
	}

	return armarRespuesta(clienteID, semanaDesde, lineas, filas), nil
}

// MarcarPago alterna la bandera de pago de una fila en una moneda.
func (uc *SettlementUseCase) MarcarPago(ctx context.Context, req dto.MarcarPagoRequest) error {
	if req.FilaID == "" {
		return domain.ErrInvalidInput
	}
	if req.Moneda != string(money.Bs) && req.Moneda != string(money.USD) {
		return domain.ErrInvalidInput
	}
	return uc.banqueoRepo.MarcarPagado(ctx, req.FilaID, req.Moneda, req.Pagado)
}

// liquidar resuelve la cascada y computa la línea de cada sistema con movimiento.
func (uc *SettlementUseCase) liquidar(ctx context.Context, clienteID string, semanaDesde time.Time) ([]commission.LineaLiquidacion, error) {
	cliente, err := uc.agenciaRepo.GetCliente(ctx, clienteID)
	if err != nil {
		return nil, fmt.Errorf("consultar cliente: %w", err)
	}
	if cliente == nil {
		return nil, domain.ErrNotFound
	}

	totales, err := uc.agg.AgregarSemanaCliente(ctx, clienteID, semanaDesde)
	if err != nil {
		return nil, err
	}

	cfgCliente, err := uc.comisionRepo.GetComisionBanqueoCliente(ctx, clienteID)
	if err != nil {
		return nil, fmt.Errorf("consultar comisión banqueo: %w", err)
	}

	var lineas []commission.LineaLiquidacion
	for _, f := range totales.PorSistema {
		if f.SoloLectura {
			continue
		}
		clienteSistema, err := uc.comisionRepo.GetParticipacionClienteSistema(ctx, clienteID, f.SistemaID)
		if err != nil {
			return nil, fmt.Errorf("consultar participación cliente/sistema: %w", err)
		}
		tasaSistema, err := uc.comisionRepo.GetTasaSistema(ctx, f.SistemaID)
		if err != nil {
			return nil, fmt.Errorf("consultar tasa del sistema: %w", err)
		}
		tasas := commission.Resolver(clienteSistema, cfgCliente, tasaSistema)
		lineas = append(lineas, commission.Liquidar(f.SistemaID, f.VentasBs, f.VentasUSD, f.PremiosBs, f.PremiosUSD, tasas))
	}
	return lineas, nil
}

func armarRespuesta(clienteID string, semanaDesde time.Time, lineas []commission.LineaLiquidacion, filas []*entity.TransaccionBanqueo) *dto.LiquidacionSemanaResponse {
	pagos := make(map[string]*entity.TransaccionBanqueo, len(filas))
	for _, f := range filas {
		pagos[f.SistemaID] = f
	}

	resp := &dto.LiquidacionSemanaResponse{
		ClienteID:   clienteID,
		SemanaDesde: semanaDesde,
		Lineas:      make([]dto.LineaBanqueo, 0, len(lineas)),
	}
	for _, l := range lineas {
		lb := dto.LineaBanqueo{
			SistemaID:           l.SistemaID,
			VentasBs:            l.VentasBs,
			VentasUSD:           l.VentasUSD,
			PremiosBs:           l.PremiosBs,
			PremiosUSD:          l.PremiosUSD,
			ComisionPctBs:       l.Tasas.ComisionBs,
			ComisionPctUSD:      l.Tasas.ComisionUSD,
			ParticipacionPctBs:  l.Tasas.ParticipacionBs,
			ParticipacionPctUSD: l.Tasas.ParticipacionUSD,
			LanavePctBs:         l.Tasas.LanaveBs,
			LanavePctUSD:        l.Tasas.LanaveUSD,
			NetoBs:              l.NetoBs,
			NetoUSD:             l.NetoUSD,
			ComisionBs:          l.ComisionBs,
			ComisionUSD:         l.ComisionUSD,
			SubtotalBs:          l.SubtotalBs,
			SubtotalUSD:         l.SubtotalUSD,
			ParticipacionBs:     l.ParticipacionBs,
			ParticipacionUSD:    l.ParticipacionUSD,
			LanaveBs:            l.LanaveBs,
			LanaveUSD:           l.LanaveUSD,
			FinalBs:             l.FinalBs,
			FinalUSD:            l.FinalUSD,
		}
		if f, ok := pagos[l.SistemaID]; ok {
			lb.PagadoBs = f.PagadoBs
			lb.PagadoUSD = f.PagadoUSD
		}
		resp.Lineas = append(resp.Lineas, lb)
	}

	total := commission.Sumar(lineas)
	resp.TotalVentasBs = total.VentasBs
	resp.TotalVentasUSD = total.VentasUSD
	resp.TotalPremiosBs = total.PremiosBs
	resp.TotalPremiosUSD = total.PremiosUSD
	resp.TotalComisionBs = total.ComisionBs
	resp.TotalComisionUSD = total.ComisionUSD
	resp.TotalParticipacionBs = total.ParticipacionBs
	resp.TotalParticipacionUSD = total.ParticipacionUSD
	resp.TotalLanaveBs = total.LanaveBs
	resp.TotalLanaveUSD = total.LanaveUSD
	resp.TotalFinalBs = total.FinalBs
	resp.TotalFinalUSD = total.FinalUSD

	return resp
}
