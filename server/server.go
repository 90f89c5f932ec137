// Package server monta as rotas HTTP do backend de banners.
//
// Cada rota de escrita passa por: auth (bearer) -> cota por usuário ->
// validação -> colaborador externo (provedor, storage, galeria).
package server

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"banner-guard/gallery"
	"banner-guard/middleware/auth"
	"banner-guard/middleware/guard"
	guardapp "banner-guard/middleware/guard/application"
	guarddomain "banner-guard/middleware/guard/domain"
	"banner-guard/middleware/ratelimit"
	rlapp "banner-guard/middleware/ratelimit/application"
	rldomain "banner-guard/middleware/ratelimit/domain"
	"banner-guard/provider/gemini"
	"banner-guard/storage"

	"github.com/gorilla/mux"
)

type Generator interface {
	Generate(ctx context.Context, req guarddomain.BannerRequest) (gemini.Image, error)
}

type ObjectStore interface {
	Put(ctx context.Context, folder, ownerID, originalName, contentType string, r io.Reader, size int64) (storage.Object, error)
	Delete(ctx context.Context, key string) error
	PublicURL(key string) string
}

type Gallery interface {
	Save(ctx context.Context, b gallery.Banner) (gallery.Banner, error)
	ListByUser(ctx context.Context, userID string) ([]gallery.Banner, error)
	ListPublic(ctx context.Context, limit int) ([]gallery.Banner, error)
	Delete(ctx context.Context, userID, id string) (gallery.Banner, error)
}

type Deps struct {
	Verifier  auth.Verifier
	Validator *guardapp.Validator
	Limiter   *rlapp.Service
	Stats     rldomain.StatsStore

	// PublicPolicy limita GET /api/banners/public por IP. Zero usa
	// rldomain.PublicPolicy.
	PublicPolicy       rldomain.Policy
	TrustXForwardedFor bool

	// GenerationPool limita as chamadas simultâneas ao provedor.
	GenerationPool    rldomain.SlotPool
	GenerationTimeout time.Duration

	Generator Generator
	Objects   ObjectStore
	Gallery   Gallery
	Logger    *slog.Logger
}

type handlers struct {
	Deps
}

// New devolve o router com todas as rotas registradas.
func New(d Deps) http.Handler {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.Validator == nil {
		d.Validator = guardapp.NewValidator()
	}
	if d.Limiter == nil {
		d.Limiter = rlapp.NewService(nil, nil)
	}
	if d.PublicPolicy.Max <= 0 || d.PublicPolicy.Window <= 0 {
		d.PublicPolicy = rldomain.PublicPolicy
	}
	h := &handlers{Deps: d}

	r := mux.NewRouter()
	r.Use(accessLog(d.Logger))

	r.HandleFunc("/healthz", h.health).Methods(http.MethodGet)

	authed := auth.Required(d.Verifier, d.Logger)

	generate := h.quota("generate", "generate-banner", rldomain.GenerationPolicy)(
		ratelimit.ConcurrencyMiddleware(ratelimit.ConcurrencyOptions{
			Pool:           d.GenerationPool,
			AcquireTimeout: d.GenerationTimeout,
			Logger:         d.Logger,
		})(http.HandlerFunc(h.generateBanner)))
	h.post(r, "/api/generate-banner", authed(generate))

	uploadQuota := h.quota("upload", "upload", rldomain.UploadPolicy)
	h.post(r, "/api/upload-logo", authed(uploadQuota(h.upload("logo", storage.FolderLogos, "logoUrl"))))
	h.post(r, "/api/upload-image", authed(uploadQuota(h.upload("image", storage.FolderBanners, "imageUrl"))))

	save := h.quota("gallery", "save-to-gallery", rldomain.UploadPolicy)(http.HandlerFunc(h.saveToGallery))
	h.post(r, "/api/save-to-gallery", authed(save))

	publicQuota := ratelimit.Middleware(ratelimit.Options{
		Service:             h.Limiter,
		Policy:              d.PublicPolicy,
		Route:               "banners-public",
		Stats:               h.Stats,
		KeyFn:               prefixed("public", ratelimit.DefaultKeyFunc(d.TrustXForwardedFor)),
		AddRateLimitHeaders: true,
		Logger:              h.Logger,
	})
	r.Handle("/api/banners/public", publicQuota(http.HandlerFunc(h.listPublic))).Methods(http.MethodGet)
	r.Handle("/api/banners", authed(http.HandlerFunc(h.listMine))).Methods(http.MethodGet)
	r.Handle("/api/banners/{id}", authed(http.HandlerFunc(h.deleteBanner))).Methods(http.MethodDelete)

	return r
}

// post registra POST + preflight OPTIONS para path.
func (h *handlers) post(r *mux.Router, path string, next http.Handler) {
	r.Handle(path, guard.CORS(next)).Methods(http.MethodPost)
	r.HandleFunc(path, guard.Preflight).Methods(http.MethodOptions)
}

// quota aplica a política p com chave "{grupo}:{user id}".
// Rotas do mesmo grupo dividem a mesma cota.
func (h *handlers) quota(group, route string, p rldomain.Policy) func(http.Handler) http.Handler {
	return ratelimit.Middleware(ratelimit.Options{
		Service:             h.Limiter,
		Policy:              p,
		Route:               route,
		Stats:               h.Stats,
		KeyFn:               prefixed(group, auth.KeyFromRequest),
		AddRateLimitHeaders: true,
		Logger:              h.Logger,
	})
}

func prefixed(group string, key ratelimit.KeyFunc) ratelimit.KeyFunc {
	return func(r *http.Request) string { return group + ":" + key(r) }
}

func (h *handlers) health(w http.ResponseWriter, _ *http.Request) {
	guard.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func accessLog(logger *slog.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			logger.Debug("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.status,
				"duration", time.Since(start),
			)
		})
	}
}
