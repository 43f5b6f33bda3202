// Package models contains the domain structures shared by storage, services
// and HTTP handlers, plus the request DTOs validated at the boundary.
package models

import "time"

// Coleta is the collection record of one weekday.
// Observacao is nil when the day carries no note.
type Coleta struct {
	ID         int       `json:"id"`
	DiaSemana  string    `json:"dia_semana"`
	TipoColeta string    `json:"tipo_coleta"`
	Observacao *string   `json:"observacao"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// DummyColeta receives the PUT /api/dia/{nome} body before it is trimmed and
// handed to the store.
type DummyColeta struct {
	TipoColeta string  `json:"tipo_coleta" validate:"required"`
	Observacao *string `json:"observacao"`
}

// DefaultColeta is one row of the seed table.
type DefaultColeta struct {
	DiaSemana  string
	TipoColeta string
}
