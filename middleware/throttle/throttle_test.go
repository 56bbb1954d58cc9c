package throttle

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestMiddleware_AllowsThenRejectsSameCookie(t *testing.T) {
	store := NewStore(0.02, 1)

	calls := 0
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, "ok")
	})

	h := Middleware(Options{
		Store:               store,
		CookieName:          "sid",
		RetryAfter:          2500 * time.Millisecond,
		AddRateLimitHeaders: true,
	})(next)

	do := func(remote string) *httptest.ResponseRecorder {
		r := httptest.NewRequest(http.MethodGet, "http://example/query", nil)
		r.RemoteAddr = remote
		r.Header.Set("Cookie", "sid=client-1")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)
		return w
	}

	w1 := do("10.0.0.1:1234")
	if w1.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w1.Code)
	}
	if got := w1.Header().Get("X-RateLimit-Burst"); got != "1" {
		t.Fatalf("expected X-RateLimit-Burst=1, got %q", got)
	}
	if got := w1.Header().Get("X-RateLimit-RPS"); got != "0.02" {
		t.Fatalf("expected X-RateLimit-RPS=0.02, got %q", got)
	}

	// mesmo cookie, outro IP: continua sendo o mesmo cliente
	w2 := do("10.0.0.2:1234")
	if w2.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", w2.Code)
	}
	if got := strings.TrimSpace(w2.Header().Get("Retry-After")); got != "2" {
		t.Fatalf("expected Retry-After=2, got %q", got)
	}
	if calls != 1 {
		t.Fatalf("expected next handler to be called once, got %d", calls)
	}
}

func TestMiddleware_DifferentClientsHaveOwnBuckets(t *testing.T) {
	store := NewStore(0.02, 1)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	h := Middleware(Options{Store: store, CookieName: "sid"})(next)

	for _, sid := range []string{"a", "b"} {
		r := httptest.NewRequest(http.MethodGet, "http://example/", nil)
		r.RemoteAddr = "10.0.0.1:1234"
		r.Header.Set("Cookie", "sid="+sid)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200 for sid %s, got %d", sid, w.Code)
		}
	}
}

func TestMiddleware_NoStorePassesThrough(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	h := Middleware(Options{})(next)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "http://example/", nil))
	if w.Code != http.StatusTeapot {
		t.Fatalf("expected passthrough, got %d", w.Code)
	}
}
