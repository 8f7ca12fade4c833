package entity_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/lanave/agencias-api/internal/domain/entity"
)

// Cero presente y ausente son cosas distintas: esa diferencia es el contrato
// sobre el que se apoya la cascada de comisiones.
func TestPorcentaje_CeroPresenteNoEsAusente(t *testing.T) {
	cero := entity.NuevoPorcentaje(decimal.Zero)
	ausente := entity.PorcentajeAusente()

	assert.True(t, cero.Presente())
	assert.False(t, ausente.Presente())
	assert.True(t, cero.Valor().IsZero())
	assert.True(t, ausente.Valor().IsZero())
}

func TestPorcentaje_ODefectoSoloCaeSiAusente(t *testing.T) {
	diez := entity.NuevoPorcentaje(decimal.NewFromInt(10))
	cero := entity.NuevoPorcentaje(decimal.Zero)

	assert.True(t, cero.ODefecto(diez).Valor().IsZero(), "el 0 explícito no cae al defecto")
	assert.True(t, entity.PorcentajeAusente().ODefecto(diez).Valor().Equal(decimal.NewFromInt(10)))
}

func TestPorcentaje_Valido(t *testing.T) {
	assert.True(t, entity.NuevoPorcentaje(decimal.Zero).Valido())
	assert.True(t, entity.NuevoPorcentaje(decimal.NewFromInt(100)).Valido())
	assert.False(t, entity.NuevoPorcentaje(decimal.NewFromInt(101)).Valido())
	assert.False(t, entity.NuevoPorcentaje(decimal.NewFromInt(-1)).Valido())
	assert.True(t, entity.PorcentajeAusente().Valido(), "la ausencia siempre es válida")
}

func TestPorcentaje_PunteroIdaYVuelta(t *testing.T) {
	diez := entity.NuevoPorcentaje(decimal.NewFromInt(10))

	p := diez.Puntero()
	assert.NotNil(t, p)
	assert.True(t, entity.PorcentajeDesdePuntero(p).Presente())

	assert.Nil(t, entity.PorcentajeAusente().Puntero(), "ausente viaja como NULL")
	assert.False(t, entity.PorcentajeDesdePuntero(nil).Presente())
}
