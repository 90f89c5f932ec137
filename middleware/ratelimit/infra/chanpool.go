package infra

import (
	"context"

	"banner-guard/middleware/ratelimit/domain"

	"golang.org/x/time/rate"
)

type chanPool struct {
	sem  chan struct{}
	pace *rate.Limiter
}

// NewChanPool cria um pool simples baseado em channel com capacidade `max`.
func NewChanPool(max int) domain.SlotPool {
	return &chanPool{sem: make(chan struct{}, max)}
}

// NewPacedPool é um chanPool que, além do teto de concorrência, espaça as
// aquisições com um token bucket (rps/burst) antes de chamar o provedor.
// rps <= 0 desliga o espaçamento.
func NewPacedPool(max int, rps float64, burst int) domain.SlotPool {
	p := &chanPool{sem: make(chan struct{}, max)}
	if rps > 0 {
		if burst <= 0 {
			burst = 1
		}
		p.pace = rate.NewLimiter(rate.Limit(rps), burst)
	}
	return p
}

func (p *chanPool) Acquire(ctx context.Context) (func(), bool) {
	select {
	case p.sem <- struct{}{}:
	case <-ctx.Done():
		return nil, false
	}

	if p.pace != nil {
		if err := p.pace.Wait(ctx); err != nil {
			<-p.sem
			return nil, false
		}
	}
	return func() { <-p.sem }, true
}
