package entity

import (
	"github.com/shopspring/decimal"
)

// Porcentaje es un porcentaje opcional en escala 0..100.
// Distingue "no configurado" de "configurado en 0": un 0 explícito es un
// override válido y corta la cascada de comisiones; la ausencia cae al
// siguiente nivel. Esta distinción es contractual (ver cascada de comisiones).
type Porcentaje struct {
	valor    decimal.Decimal
	presente bool
}

// NuevoPorcentaje construye un porcentaje presente.
func NuevoPorcentaje(v decimal.Decimal) Porcentaje {
	return Porcentaje{valor: v, presente: true}
}

// PorcentajeDesdeString construye un porcentaje presente desde string decimal.
func PorcentajeDesdeString(s string) Porcentaje {
	v, err := decimal.NewFromString(s)
	if err != nil {
		return Porcentaje{}
	}
	return Porcentaje{valor: v, presente: true}
}

// PorcentajeAusente devuelve el valor "no configurado".
func PorcentajeAusente() Porcentaje {
	return Porcentaje{}
}

// Presente indica si el porcentaje fue configurado explícitamente.
func (p Porcentaje) Presente() bool { return p.presente }

// Valor devuelve el valor configurado, o cero si está ausente.
func (p Porcentaje) Valor() decimal.Decimal {
	if !p.presente {
		return decimal.Zero
	}
	return p.valor
}

// Valido verifica que el valor esté en [0, 100]. Un porcentaje ausente es válido.
func (p Porcentaje) Valido() bool {
	if !p.presente {
		return true
	}
	cien := decimal.NewFromInt(100)
	return p.valor.GreaterThanOrEqual(decimal.Zero) && p.valor.LessThanOrEqual(cien)
}

// Puntero devuelve el valor como *decimal.Decimal para columnas NULLables:
// nil cuando está ausente.
func (p Porcentaje) Puntero() *decimal.Decimal {
	if !p.presente {
		return nil
	}
	v := p.valor
	return &v
}

// PorcentajeDesdePuntero reconstruye el porcentaje desde una columna NULLable.
func PorcentajeDesdePuntero(v *decimal.Decimal) Porcentaje {
	if v == nil {
		return Porcentaje{}
	}
	return Porcentaje{valor: *v, presente: true}
}

// ODefecto devuelve este porcentaje si está presente; si no, el siguiente de la cascada.
func (p Porcentaje) ODefecto(siguiente Porcentaje) Porcentaje {
	if p.presente {
		return p
	}
	return siguiente
}
