package application

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"sync"
	"time"

	"banner-guard/middleware/ratelimit/domain"
)

var ErrInvalidPolicy = errors.New("ratelimit: policy needs Max > 0 and Window > 0")

const lockStripes = 64

// Service concentra a regra da janela fixa.
//
// Ele não sabe nada sobre HTTP (headers/status), apenas retorna uma decisão.
// O read-modify-write de cada chave acontece sob um mutex (striped por hash
// da chave), então incrementos concorrentes da mesma identidade não se perdem.
type Service struct {
	store domain.EntryStore
	now   func() time.Time
	locks [lockStripes]sync.Mutex
}

// NewService cria o service. Se now for nil usa time.Now.
func NewService(store domain.EntryStore, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{store: store, now: now}
}

// TryAcquire consome uma unidade da cota de key, se houver.
func (s *Service) TryAcquire(ctx context.Context, key domain.Key, p domain.Policy) (domain.Decision, error) {
	if p.Max <= 0 || p.Window <= 0 {
		return domain.Decision{}, ErrInvalidPolicy
	}
	if s == nil || s.store == nil {
		return domain.Decision{Allowed: true, Limit: p.Max, Remaining: p.Max}, nil
	}

	now := s.now()

	if as, ok := s.store.(domain.AtomicStore); ok {
		dec, err := as.Acquire(ctx, key, p, now)
		if err != nil {
			return domain.Decision{}, fmt.Errorf("ratelimit: acquire %q: %w", key, err)
		}
		return dec, nil
	}

	mu := s.lockFor(key)
	mu.Lock()
	defer mu.Unlock()

	cur, found, err := s.store.Get(ctx, key)
	if err != nil {
		return domain.Decision{}, fmt.Errorf("ratelimit: get %q: %w", key, err)
	}

	next, changed, dec := domain.Decide(cur, found, p, now)
	if changed {
		if err := s.store.Set(ctx, key, next); err != nil {
			return domain.Decision{}, fmt.Errorf("ratelimit: set %q: %w", key, err)
		}
	}
	return dec, nil
}

// Allow é a forma booleana do contrato: true se a requisição cabe na janela.
// Erro do store conta como negado.
func (s *Service) Allow(key string, maxRequests int, window time.Duration) bool {
	dec, err := s.TryAcquire(context.Background(), domain.Key(key), domain.Policy{Max: maxRequests, Window: window})
	return err == nil && dec.Allowed
}

// Sweep remove entradas expiradas, se o store souber fazer isso.
// Só serve para limitar memória: a expiração também é checada no acesso.
func (s *Service) Sweep(ctx context.Context) (int, error) {
	if s == nil || s.store == nil {
		return 0, nil
	}
	sw, ok := s.store.(domain.Sweeper)
	if !ok {
		return 0, nil
	}
	return sw.Sweep(ctx, s.now())
}

// StartJanitor inicia uma goroutine que varre entradas expiradas periodicamente.
// Pare cancelando o contexto.
func (s *Service) StartJanitor(ctx context.Context, every time.Duration) {
	if every <= 0 {
		return
	}

	t := time.NewTicker(every)
	go func() {
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				_, _ = s.Sweep(ctx)
			}
		}
	}()
}

func (s *Service) lockFor(key domain.Key) *sync.Mutex {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return &s.locks[h.Sum32()%lockStripes]
}
