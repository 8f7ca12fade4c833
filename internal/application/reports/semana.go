package reports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	appcuadre "github.com/lanave/agencias-api/internal/application/cuadre"
	"github.com/lanave/agencias-api/internal/application/dto"
	"github.com/lanave/agencias-api/internal/domain/entity"
)

// DiaSemana es el resultado de un día dentro del reporte semanal.
type DiaSemana struct {
	Fecha          time.Time           `json:"fecha"`
	EstadoRevision string              `json:"estado_revision"`
	Resultado      dto.ResultadoCuadre `json:"resultado"`
}

// ReporteSemana es el consolidado semanal de una agencia.
type ReporteSemana struct {
	AgenciaID   string      `json:"agencia_id"`
	SemanaDesde time.Time   `json:"semana_desde"`
	Dias        []DiaSemana `json:"dias"`

	VentasBs      decimal.Decimal `json:"ventas_bs"`
	VentasUSD     decimal.Decimal `json:"ventas_usd"`
	PremiosBs     decimal.Decimal `json:"premios_bs"`
	PremiosUSD    decimal.Decimal `json:"premios_usd"`
	DiferenciaBs  decimal.Decimal `json:"diferencia_bs"`
	DiferenciaUSD decimal.Decimal `json:"diferencia_usd"`
	DiasBalanceados int           `json:"dias_balanceados"`
	DiasAprobados   int           `json:"dias_aprobados"`
}

// SemanaUseCase arma el reporte semanal de una agencia día por día.
// Cada día pasa por la misma función de cálculo que la vista diaria, así las
// dos vistas no pueden divergir en la regla del excedente USD.
type SemanaUseCase struct {
	rec *appcuadre.Reconciler
}

// NewSemanaUseCase construye el caso de uso.
func NewSemanaUseCase(rec *appcuadre.Reconciler) *SemanaUseCase {
	return &SemanaUseCase{rec: rec}
}

// Semana calcula el reporte de la semana que inicia en semanaDesde (lunes).
func (uc *SemanaUseCase) Semana(ctx context.Context, actorID, agenciaID string, semanaDesde time.Time) (*ReporteSemana, error) {
	rep := &ReporteSemana{
		AgenciaID:   agenciaID,
		SemanaDesde: semanaDesde,
		Dias:        make([]DiaSemana, 0, 7),
	}

	for i := 0; i < 7; i++ {
		fecha := semanaDesde.AddDate(0, 0, i)
		estado, err := uc.rec.EstadoTrabajo(ctx, actorID, agenciaID, fecha)
		if err != nil {
			return nil, err
		}

		rep.Dias = append(rep.Dias, DiaSemana{
			Fecha:          fecha,
			EstadoRevision: estado.EstadoRevision,
			Resultado:      estado.Resultado,
		})

		for _, f := range estado.Sistemas {
			if f.SoloLectura {
				continue
			}
			rep.VentasBs = rep.VentasBs.Add(f.VentasBs)
			rep.VentasUSD = rep.VentasUSD.Add(f.VentasUSD)
			rep.PremiosBs = rep.PremiosBs.Add(f.PremiosBs)
			rep.PremiosUSD = rep.PremiosUSD.Add(f.PremiosUSD)
		}
		rep.DiferenciaBs = rep.DiferenciaBs.Add(estado.Resultado.DiferenciaBs)
		rep.DiferenciaUSD = rep.DiferenciaUSD.Add(estado.Resultado.DiferenciaUSD)
		if estado.Resultado.Balanceado {
			rep.DiasBalanceados++
		}
		if estado.EstadoRevision == entity.RevisionAprobado {
			rep.DiasAprobados++
		}
	}

	return rep, nil
}

// LunesDe normaliza una fecha al lunes de su semana (las semanas de
// liquidación van de lunes a domingo).
func LunesDe(fecha time.Time) time.Time {
	desplazamiento := (int(fecha.Weekday()) + 6) % 7
	dia := time.Date(fecha.Year(), fecha.Month(), fecha.Day(), 0, 0, 0, 0, fecha.Location())
	return dia.AddDate(0, 0, -desplazamiento)
}
