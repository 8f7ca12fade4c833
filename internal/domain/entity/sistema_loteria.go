package entity

import "time"

// SistemaLoteria es un sistema del catálogo de loterías.
// Un sistema con TieneSubcategorias nunca recibe transacciones de taquilla por
// sí mismo: solo sus subcategorías son hojas para registro; las transacciones
// colgadas del padre son informativas y no se suman a las subcategorías.
type SistemaLoteria struct {
	ID                string
	Nombre            string
	Codigo            string
	PadreID           string // vacío = sistema raíz
	TieneSubcategorias bool
	Activo            bool
	CreatedAt         time.Time
}

// EsSubcategoria indica si el sistema cuelga de un padre.
func (s SistemaLoteria) EsSubcategoria() bool {
	return s.PadreID != ""
}
