package infra

import (
	"context"
	"sync"
)

// MemoryCounter é um Counter em memória, para desenvolvimento e testes.
type MemoryCounter struct {
	mu  sync.Mutex
	n   int64
	err error
}

func NewMemoryCounter(n int64) *MemoryCounter {
	return &MemoryCounter{n: n}
}

func (c *MemoryCounter) Set(n int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.n = n
}

// Fail faz as próximas chamadas de Count retornarem err (nil volta ao normal).
func (c *MemoryCounter) Fail(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.err = err
}

func (c *MemoryCounter) Count(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return 0, c.err
	}
	return c.n, nil
}
