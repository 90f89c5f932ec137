package ratelimit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"banner-guard/middleware/ratelimit/infra"
)

func generateRequest() *http.Request {
	return httptest.NewRequest(http.MethodPost, "http://example/api/generate-banner", nil)
}

func TestConcurrencyMiddleware_SecondGenerationGets503WhileFirstHoldsSlot(t *testing.T) {
	inside := make(chan struct{})
	unblock := make(chan struct{})

	h := ConcurrencyMiddleware(ConcurrencyOptions{
		Max:            1,
		AcquireTimeout: 25 * time.Millisecond,
	})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(inside)
		<-unblock
		w.WriteHeader(http.StatusOK)
	}))

	first := make(chan int, 1)
	go func() {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, generateRequest())
		first <- w.Code
	}()

	select {
	case <-inside:
	case <-time.After(time.Second):
		t.Fatalf("first request never reached the handler")
	}

	w := httptest.NewRecorder()
	h.ServeHTTP(w, generateRequest())
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 for the second request, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected JSON error body, got %q", ct)
	}

	close(unblock)
	if code := <-first; code != http.StatusOK {
		t.Fatalf("expected first request 200, got %d", code)
	}
}

func TestConcurrencyMiddleware_DisabledPassesThrough(t *testing.T) {
	called := false
	h := ConcurrencyMiddleware(ConcurrencyOptions{})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	h.ServeHTTP(httptest.NewRecorder(), generateRequest())
	if !called {
		t.Fatalf("expected next to run without a limit")
	}
}

func TestConcurrencyMiddleware_UsesInjectedPool(t *testing.T) {
	pool := infra.NewChanPool(1)
	hold, ok := pool.Acquire(context.Background())
	if !ok {
		t.Fatalf("expected to hold the only slot")
	}
	defer hold()

	h := ConcurrencyMiddleware(ConcurrencyOptions{
		Pool:           pool,
		AcquireTimeout: 10 * time.Millisecond,
	})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("next must not run without a slot")
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, generateRequest())
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", w.Code)
	}
}
