package guard

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"banner-guard/middleware/guard/domain"
)

func errorBody(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return body["error"]
}

func TestWriteError_StatusMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{domain.MissingField("size"), http.StatusBadRequest},
		{domain.InvalidEnum("fontSize", "Invalid font size selected"), http.StatusBadRequest},
		{domain.InvalidDimensions("size.width", "too large"), http.StatusBadRequest},
		{domain.InvalidFileType("bad"), http.StatusBadRequest},
		{domain.FileTooLarge(), http.StatusRequestEntityTooLarge},
		{&domain.Error{Kind: domain.KindRateLimited, Message: "Rate limit exceeded"}, http.StatusTooManyRequests},
		{fmt.Errorf("wrapped: %w", domain.MissingField("theme")), http.StatusBadRequest},
		{errors.New("db down"), http.StatusInternalServerError},
	}
	for _, c := range cases {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/api/generate-banner", nil)
		WriteError(w, r, nil, c.err)
		if w.Code != c.status {
			t.Fatalf("%v: expected %d, got %d", c.err, c.status, w.Code)
		}
	}
}

func TestWriteError_ContentRejectedMessageIsVerbatim(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/generate-banner", nil)
	WriteError(w, r, nil, domain.ContentRejected("customText"))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if got := errorBody(t, w); got != domain.ContentRejectedMessage {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestWriteError_UnexpectedIsGeneric(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/upload-logo", nil)
	WriteError(w, r, nil, errors.New("minio: connection refused"))

	if got := errorBody(t, w); got != "Internal server error" {
		t.Fatalf("expected generic message, got %q", got)
	}
}

func TestPreflight(t *testing.T) {
	w := httptest.NewRecorder()
	Preflight(w, httptest.NewRequest(http.MethodOptions, "/api/upload-logo", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	want := map[string]string{
		"Access-Control-Allow-Origin":  "*",
		"Access-Control-Allow-Methods": "POST, OPTIONS",
		"Access-Control-Allow-Headers": "Content-Type, Authorization",
	}
	for k, v := range want {
		if got := w.Header().Get(k); got != v {
			t.Fatalf("%s: expected %q, got %q", k, v, got)
		}
	}
}
