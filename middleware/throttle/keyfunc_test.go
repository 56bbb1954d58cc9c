package throttle

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestDefaultKeyFunc_PrefersCookieWhenSet(t *testing.T) {
	fn := DefaultKeyFunc("sid", true)

	r := httptest.NewRequest(http.MethodGet, "http://example/", nil)
	r.RemoteAddr = "10.0.0.1:1234"
	r.Header.Set("X-Forwarded-For", "1.2.3.4")
	r.Header.Set("Cookie", "other=1; sid=abc")

	if got := fn(r); got != "cookie:abc" {
		t.Fatalf("expected cookie key, got %q", got)
	}
}

func TestDefaultKeyFunc_EmptyCookieFallsBack(t *testing.T) {
	fn := DefaultKeyFunc("sid", false)

	r := httptest.NewRequest(http.MethodGet, "http://example/", nil)
	r.RemoteAddr = "10.0.0.1:1234"
	r.Header.Set("Cookie", "sid=")

	if got := fn(r); got != "10.0.0.1" {
		t.Fatalf("expected remote host, got %q", got)
	}
}

func TestDefaultKeyFunc_TrustXForwardedForUsesFirstIP(t *testing.T) {
	fn := DefaultKeyFunc("", true)

	r := httptest.NewRequest(http.MethodGet, "http://example/", nil)
	r.RemoteAddr = "10.0.0.9:5555"
	r.Header.Set("X-Forwarded-For", "1.2.3.4, 5.6.7.8")

	if got := fn(r); got != "1.2.3.4" {
		t.Fatalf("expected first XFF ip, got %q", got)
	}
}

func TestDefaultKeyFunc_FallbacksToRemoteAddr(t *testing.T) {
	fn := DefaultKeyFunc("", false)

	r := httptest.NewRequest(http.MethodGet, "http://example/", nil)
	r.RemoteAddr = "10.0.0.9:5555"
	if got := fn(r); got != "10.0.0.9" {
		t.Fatalf("expected remote host, got %q", got)
	}

	r.RemoteAddr = "pipe"
	if got := fn(r); got != "pipe" {
		t.Fatalf("expected raw RemoteAddr, got %q", got)
	}
}
