package money

import "github.com/shopspring/decimal"

// Moneda identifica una de las dos monedas operadas por las agencias.
type Moneda string

const (
	Bs  Moneda = "BS"
	USD Moneda = "USD"
)

// Par agrupa un monto en ambas monedas. Toda la aritmética es decimal:
// los montos nunca pasan por float64 para evitar deriva en guardados repetidos.
type Par struct {
	Bs  decimal.Decimal `json:"bs"`
	USD decimal.Decimal `json:"usd"`
}

// ZeroPar devuelve el par cero.
func ZeroPar() Par {
	return Par{Bs: decimal.Zero, USD: decimal.Zero}
}

// NewPar construye un par desde strings (útil en tests y fixtures).
// Entradas no numéricas se tratan como cero.
func NewPar(bs, usd string) Par {
	b, err := decimal.NewFromString(bs)
	if err != nil {
		b = decimal.Zero
	}
	u, err := decimal.NewFromString(usd)
	if err != nil {
		u = decimal.Zero
	}
	return Par{Bs: b, USD: u}
}

// Add suma componente a componente.
func (p Par) Add(o Par) Par {
	return Par{Bs: p.Bs.Add(o.Bs), USD: p.USD.Add(o.USD)}
}

// Sub resta componente a componente.
func (p Par) Sub(o Par) Par {
	return Par{Bs: p.Bs.Sub(o.Bs), USD: p.USD.Sub(o.USD)}
}

// IsZero indica si ambos componentes son cero.
func (p Par) IsZero() bool {
	return p.Bs.IsZero() && p.USD.IsZero()
}

// Get devuelve el componente de la moneda indicada.
func (p Par) Get(m Moneda) decimal.Decimal {
	if m == USD {
		return p.USD
	}
	return p.Bs
}

// Formatear redondea half-up a dos decimales para presentación.
// El redondeo ocurre solo aquí, nunca a mitad de cálculo.
func Formatear(d decimal.Decimal) string {
	return d.Round(2).StringFixed(2)
}

// Redondear aplica half-up a dos decimales (valor de presentación).
func Redondear(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Porcentaje aplica pct (en escala 0..100) sobre base: base * pct / 100.
func Porcentaje(base, pct decimal.Decimal) decimal.Decimal {
	return base.Mul(pct).Div(decimal.NewFromInt(100))
}
