package throttle

import (
	"context"
	"time"
)

// Pool é um semáforo de capacidade fixa baseado em channel.
type Pool struct {
	sem chan struct{}
}

func NewPool(max int) *Pool {
	return &Pool{sem: make(chan struct{}, max)}
}

// Acquire espera uma vaga até ctx encerrar ou timeout (se > 0) estourar.
// Com ok=true, release deve ser chamado exatamente uma vez.
func (p *Pool) Acquire(ctx context.Context, timeout time.Duration) (release func(), ok bool) {
	if p == nil {
		return func() {}, true
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	select {
	case p.sem <- struct{}{}:
		return func() { <-p.sem }, true
	case <-ctx.Done():
		return nil, false
	}
}

// InUse retorna quantas vagas estão ocupadas.
func (p *Pool) InUse() int { return len(p.sem) }
