package domain

import (
	"context"
	"time"
)

// StatsEvent resume uma requisição finalizada pelo handler de cookies.
//
// Inbound é o número de cookies recebidos; Emitted/Dropped contam os
// Set-Cookie escritos e os descartados por falha de serialização.
type StatsEvent struct {
	Method string
	Path   string
	Status int

	Inbound int
	Emitted int
	Dropped int

	At time.Time
}

// StatsStore persiste estatísticas das requisições.
//
// É best-effort: o handler ignora erros de Record e nunca derruba a resposta por isso.
type StatsStore interface {
	Record(ctx context.Context, ev StatsEvent) error
}
