package guard

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"banner-guard/middleware/guard/domain"
)

const internalErrorMessage = "Internal server error"

// WriteJSON escreve v como JSON com o status dado.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError mapeia err para status e corpo {"error": ...}.
//
// Falhas de validação devolvem a própria mensagem (que nunca contém o
// conteúdo rejeitado). Qualquer outra coisa vira 500 genérico e é logada.
func WriteError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	var gerr *domain.Error
	if errors.As(err, &gerr) {
		status := gerr.HTTPStatus()
		if status == http.StatusInternalServerError {
			writeInternal(w, r, logger, err)
			return
		}
		if logger != nil {
			logger.Info("request rejected", "path", r.URL.Path, "kind", gerr.Kind.String(), "field", gerr.Field)
		}
		WriteJSON(w, status, map[string]string{"error": gerr.Message})
		return
	}
	writeInternal(w, r, logger, err)
}

func writeInternal(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	if logger != nil {
		logger.Error("request failed", "path", r.URL.Path, "err", err)
	}
	WriteJSON(w, http.StatusInternalServerError, map[string]string{"error": internalErrorMessage})
}

// Preflight responde ao OPTIONS das rotas POST.
func Preflight(w http.ResponseWriter, _ *http.Request) {
	setCORS(w.Header())
	w.WriteHeader(http.StatusOK)
}

// CORS acrescenta os headers de CORS às respostas de next.
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		setCORS(w.Header())
		next.ServeHTTP(w, r)
	})
}

func setCORS(h http.Header) {
	h.Set("Access-Control-Allow-Origin", "*")
	h.Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
}
