package infra

import (
	"context"
	"sync"
	"time"

	"banner-guard/middleware/ratelimit/domain"
)

// MemoryStore guarda as entradas da janela fixa num map protegido por mutex.
// Serve um único processo; para várias réplicas use RedisStore.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[domain.Key]domain.Entry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[domain.Key]domain.Entry)}
}

func (s *MemoryStore) Get(_ context.Context, key domain.Key) (domain.Entry, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	return e, ok, nil
}

func (s *MemoryStore) Set(_ context.Context, key domain.Key, e domain.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = e
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, key domain.Key) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}

// Sweep remove as entradas expiradas em now.
// A checagem e o delete acontecem sob o mesmo lock, então uma entrada
// renovada por um acquire concorrente não é apagada.
func (s *MemoryStore) Sweep(_ context.Context, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for k, e := range s.entries {
		if e.Expired(now) {
			delete(s.entries, k)
			removed++
		}
	}
	return removed, nil
}

func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
