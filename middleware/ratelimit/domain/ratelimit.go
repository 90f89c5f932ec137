package domain

// Camada de domínio do rate limit.
//
// Regras e contratos (interfaces/tipos) sem dependência de net/http.

import (
	"context"
	"time"
)

// Key identifica o dono da cota (ex: id do usuário autenticado).
type Key string

// Policy descreve uma janela fixa: no máximo Max requisições a cada Window.
type Policy struct {
	Max    int
	Window time.Duration
}

// Limites observados por endpoint.
var (
	GenerationPolicy = Policy{Max: 5, Window: time.Minute}
	UploadPolicy     = Policy{Max: 10, Window: time.Minute}
	// PublicPolicy vale por IP na listagem pública, que não exige login.
	PublicPolicy = Policy{Max: 60, Window: time.Minute}
)

// Entry é o estado de uma chave ativa.
//
// Count nunca passa de Policy.Max dentro de [início da janela, ResetAt].
// Uma entrada com now > ResetAt está logicamente expirada, mesmo que
// ainda exista no store (expiração preguiçosa).
type Entry struct {
	Count   int
	ResetAt time.Time
}

// Expired informa se a janela da entrada já terminou em now.
func (e Entry) Expired(now time.Time) bool {
	return now.After(e.ResetAt)
}

// EntryStore guarda as entradas por chave.
//
// A implementação não precisa ser atômica entre Get e Set: quem chama
// (application.Service) serializa o read-modify-write por chave.
// Stores compartilhados entre processos devem implementar AtomicStore.
type EntryStore interface {
	Get(ctx context.Context, key Key) (Entry, bool, error)
	Set(ctx context.Context, key Key, e Entry) error
	Delete(ctx context.Context, key Key) error
}

// AtomicStore é opcional: quando o store consegue fazer o acquire inteiro
// num passo só (ex: script Lua no Redis), o service delega para ele.
type AtomicStore interface {
	Acquire(ctx context.Context, key Key, p Policy, now time.Time) (Decision, error)
}

// Sweeper é opcional: remove entradas cuja janela já terminou.
type Sweeper interface {
	Sweep(ctx context.Context, now time.Time) (removed int, err error)
}

type Decision struct {
	Allowed bool

	Limit     int
	Remaining int
	ResetAt   time.Time

	// RetryAfter é o valor a ser retornado em Retry-After quando bloquear.
	// Se 0, não há recomendação.
	RetryAfter time.Duration
}

// Decide aplica a máquina de estados da janela fixa sobre a entrada atual.
// Retorna a nova entrada (a ser gravada) e se ela mudou.
func Decide(cur Entry, found bool, p Policy, now time.Time) (Entry, bool, Decision) {
	if !found || cur.Expired(now) {
		next := Entry{Count: 1, ResetAt: now.Add(p.Window)}
		return next, true, allowed(next, p)
	}
	if cur.Count < p.Max {
		cur.Count++
		return cur, true, allowed(cur, p)
	}
	return cur, false, Decision{
		Allowed:    false,
		Limit:      p.Max,
		Remaining:  0,
		ResetAt:    cur.ResetAt,
		RetryAfter: cur.ResetAt.Sub(now),
	}
}

func allowed(e Entry, p Policy) Decision {
	rem := p.Max - e.Count
	if rem < 0 {
		rem = 0
	}
	return Decision{Allowed: true, Limit: p.Max, Remaining: rem, ResetAt: e.ResetAt}
}
