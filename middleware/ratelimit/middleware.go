package ratelimit

import (
	"encoding/json"
	"log/slog"
	"math"
	"net"
	"net/http"
	"strings"
	"time"

	"banner-guard/middleware/ratelimit/application"
	"banner-guard/middleware/ratelimit/domain"
)

type KeyFunc func(r *http.Request) string

type Options struct {
	Service *application.Service
	Policy  domain.Policy
	// Route é o nome lógico usado nas estatísticas (ex: "generate-banner").
	Route string
	Stats domain.StatsStore

	// KeyFn extrai a chave; nil usa o IP do cliente (DefaultKeyFunc(false)).
	KeyFn               KeyFunc
	RejectStatus        int
	AddRateLimitHeaders bool
	Logger              *slog.Logger
}

// DefaultKeyFunc usa o IP do cliente como chave, para rotas sem login.
// Com trustXFF, o primeiro IP de X-Forwarded-For vence o RemoteAddr; só
// ligue atrás de um proxy que sobrescreve esse header.
func DefaultKeyFunc(trustXFF bool) KeyFunc {
	return func(r *http.Request) string {
		if trustXFF {
			first, _, _ := strings.Cut(r.Header.Get("X-Forwarded-For"), ",")
			if ip := strings.TrimSpace(first); ip != "" {
				return ip
			}
		}

		remote := strings.TrimSpace(r.RemoteAddr)
		if host, _, err := net.SplitHostPort(remote); err == nil && host != "" {
			return host
		}
		if remote != "" {
			return remote
		}
		return "unknown"
	}
}

// Middleware aplica a cota de janela fixa de opts.Policy por chave.
// Erro do store responde 500: sem estado confiável não há como contar.
func Middleware(opts Options) func(next http.Handler) http.Handler {
	if opts.RejectStatus == 0 {
		opts.RejectStatus = http.StatusTooManyRequests
	}
	if opts.KeyFn == nil {
		opts.KeyFn = DefaultKeyFunc(false)
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Service == nil {
		opts.Service = application.NewService(nil, nil)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := opts.KeyFn(r)

			dec, err := opts.Service.TryAcquire(r.Context(), domain.Key(key), opts.Policy)
			if err != nil {
				opts.Logger.Error("rate limit store failed", "path", r.URL.Path, "err", err)
				writeJSONError(w, http.StatusInternalServerError, "Internal server error")
				return
			}

			if opts.Stats != nil {
				_ = opts.Stats.Record(r.Context(), domain.StatsEvent{
					Key:     domain.Key(key),
					Allowed: dec.Allowed,
					Route:   opts.Route,
					At:      time.Now(),
				})
			}

			if opts.AddRateLimitHeaders {
				w.Header().Set("X-RateLimit-Limit", formatInt(dec.Limit))
				w.Header().Set("X-RateLimit-Remaining", formatInt(dec.Remaining))
				if !dec.ResetAt.IsZero() {
					w.Header().Set("X-RateLimit-Reset", formatInt64(dec.ResetAt.Unix()))
				}
			}

			if !dec.Allowed {
				opts.Logger.Warn("rate limit exceeded", "user_id", key, "path", r.URL.Path)
				w.Header().Set("Retry-After", formatInt(retryAfterSeconds(dec.RetryAfter)))
				writeJSONError(w, opts.RejectStatus, "Rate limit exceeded")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// retryAfterSeconds arredonda para cima e nunca devolve menos de 1s.
func retryAfterSeconds(d time.Duration) int {
	s := int(math.Ceil(d.Seconds()))
	if s < 1 {
		return 1
	}
	return s
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
