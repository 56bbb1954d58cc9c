package infra

import (
	"context"
	"sync"

	"query-gateway/middleware/cookiejar/domain"
)

type Counters struct {
	Requests int64
	Errors   int64 // status >= 500
	Emitted  int64
	Dropped  int64
}

func (c *Counters) add(ev domain.StatsEvent) {
	c.Requests++
	if ev.Status >= 500 {
		c.Errors++
	}
	c.Emitted += int64(ev.Emitted)
	c.Dropped += int64(ev.Dropped)
}

// MemoryStatsStore é uma implementação simples em memória.
// Não faz expiração e não é indicada para produção.
type MemoryStatsStore struct {
	mu      sync.Mutex
	total   Counters
	byRoute map[string]Counters
}

func NewMemoryStatsStore() *MemoryStatsStore {
	return &MemoryStatsStore{byRoute: make(map[string]Counters)}
}

func (s *MemoryStatsStore) Record(_ context.Context, ev domain.StatsEvent) error {
	route := ev.Method + " " + ev.Path

	s.mu.Lock()
	defer s.mu.Unlock()

	s.total.add(ev)
	c := s.byRoute[route]
	c.add(ev)
	s.byRoute[route] = c
	return nil
}

func (s *MemoryStatsStore) Total() Counters {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.total
}

func (s *MemoryStatsStore) ByRoute() map[string]Counters {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]Counters, len(s.byRoute))
	for k, v := range s.byRoute {
		out[k] = v
	}
	return out
}
