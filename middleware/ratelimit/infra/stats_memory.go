package infra

import (
	"context"
	"maps"
	"sync"

	"banner-guard/middleware/ratelimit/domain"
)

// Counters soma as decisões de um recorte (total, rota ou usuário).
type Counters struct {
	Allowed int64
	Denied  int64
}

func (c Counters) add(allowed bool) Counters {
	if allowed {
		c.Allowed++
	} else {
		c.Denied++
	}
	return c
}

// MemoryStatsStore conta decisões em memória, por rota e opcionalmente por
// usuário. Sem expiração: serve para desenvolvimento e testes.
type MemoryStatsStore struct {
	mu      sync.Mutex
	total   Counters
	byRoute map[string]Counters
	byKey   map[string]Counters

	trackKeys bool
}

type MemoryStatsOption func(*MemoryStatsStore)

func WithTrackKeys(track bool) MemoryStatsOption {
	return func(s *MemoryStatsStore) { s.trackKeys = track }
}

func NewMemoryStatsStore(opts ...MemoryStatsOption) *MemoryStatsStore {
	s := &MemoryStatsStore{
		byRoute: make(map[string]Counters),
		byKey:   make(map[string]Counters),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *MemoryStatsStore) Record(_ context.Context, ev domain.StatsEvent) error {
	route := ev.Route
	if route == "" {
		route = "-"
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.total = s.total.add(ev.Allowed)
	s.byRoute[route] = s.byRoute[route].add(ev.Allowed)
	if s.trackKeys && ev.Key != "" {
		k := string(ev.Key)
		s.byKey[k] = s.byKey[k].add(ev.Allowed)
	}
	return nil
}

func (s *MemoryStatsStore) Total() Counters {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.total
}

// ByRoute devolve uma cópia dos contadores por rota.
func (s *MemoryStatsStore) ByRoute() map[string]Counters {
	s.mu.Lock()
	defer s.mu.Unlock()
	return maps.Clone(s.byRoute)
}

func (s *MemoryStatsStore) ByKey() map[string]Counters {
	s.mu.Lock()
	defer s.mu.Unlock()
	return maps.Clone(s.byKey)
}
