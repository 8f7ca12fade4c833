package entity

import "time"

// Agencia es un punto de venta de la cadena.
type Agencia struct {
	ID        string
	Nombre    string
	GrupoID   string
	Activa    bool
	CreatedAt time.Time
}

// ClienteBanqueo es un cliente mayorista liquidado por semana.
type ClienteBanqueo struct {
	ID        string
	Nombre    string
	Activo    bool
	CreatedAt time.Time
}
