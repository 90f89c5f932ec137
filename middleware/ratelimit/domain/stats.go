package domain

import (
	"context"
	"time"
)

// StatsEvent representa uma decisão da cota.
//
// Route é o nome lógico do endpoint ("generate-banner", "upload-logo", ...).
// Cuidado com cardinalidade ao rastrear Key: um id por usuário vira uma
// chave por usuário no Redis.
type StatsEvent struct {
	Key     Key
	Allowed bool
	Route   string
	At      time.Time
}

// StatsStore persiste estatísticas da cota.
// O middleware trata erro como best-effort (não derruba a request).
type StatsStore interface {
	Record(ctx context.Context, ev StatsEvent) error
}
