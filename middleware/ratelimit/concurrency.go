package ratelimit

import (
	"log/slog"
	"net/http"
	"time"

	"banner-guard/middleware/ratelimit/application"
	"banner-guard/middleware/ratelimit/domain"
	"banner-guard/middleware/ratelimit/infra"
)

type ConcurrencyOptions struct {
	Max            int
	RejectStatus   int
	AcquireTimeout time.Duration
	// Pool substitui o semáforo padrão (ex: NewPacedPool compartilhado).
	Pool   domain.SlotPool
	Logger *slog.Logger
}

// ConcurrencyMiddleware limita quantas requests passam ao mesmo tempo.
// Quem espera mais que AcquireTimeout recebe 503.
func ConcurrencyMiddleware(opts ConcurrencyOptions) func(next http.Handler) http.Handler {
	if opts.Pool == nil && opts.Max <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	if opts.RejectStatus == 0 {
		opts.RejectStatus = http.StatusServiceUnavailable
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	pool := opts.Pool
	if pool == nil {
		pool = infra.NewChanPool(opts.Max)
	}

	svc := application.ConcurrencyService{
		Pool:           pool,
		AcquireTimeout: opts.AcquireTimeout,
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			release, ok := svc.Acquire(r.Context())
			if !ok {
				opts.Logger.Warn("generation capacity exhausted", "path", r.URL.Path)
				writeJSONError(w, opts.RejectStatus, http.StatusText(opts.RejectStatus))
				return
			}
			defer release()

			next.ServeHTTP(w, r)
		})
	}
}
