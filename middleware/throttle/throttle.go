package throttle

import (
	"net"
	"net/http"
	"strings"
	"time"
)

type KeyFunc func(r *http.Request) string

type Options struct {
	Store *Store
	KeyFn KeyFunc
	// CookieName identifica o cliente pelo valor desse cookie, quando presente.
	CookieName          string
	TrustXForwardedFor  bool
	RejectStatus        int
	RetryAfter          time.Duration
	AddRateLimitHeaders bool
}

// DefaultKeyFunc: cookie do cliente, depois X-Forwarded-For (se trustXFF),
// depois o host do RemoteAddr.
func DefaultKeyFunc(cookieName string, trustXFF bool) KeyFunc {
	return func(r *http.Request) string {
		if cookieName != "" {
			if c, err := r.Cookie(cookieName); err == nil {
				if v := strings.TrimSpace(c.Value); v != "" {
					return "cookie:" + v
				}
			}
		}

		if trustXFF {
			if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
				first, _, _ := strings.Cut(xff, ",")
				if ip := strings.TrimSpace(first); ip != "" {
					return ip
				}
			}
		}

		host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
		if err == nil && host != "" {
			return host
		}
		if r.RemoteAddr != "" {
			return r.RemoteAddr
		}
		return "unknown"
	}
}

// Middleware aplica o rate limit por cliente. Sem Store, não limita nada.
func Middleware(opts Options) func(next http.Handler) http.Handler {
	if opts.Store == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	if opts.RejectStatus == 0 {
		opts.RejectStatus = http.StatusTooManyRequests
	}
	if opts.RetryAfter <= 0 {
		opts.RetryAfter = 1 * time.Second
	}
	if opts.KeyFn == nil {
		opts.KeyFn = DefaultKeyFunc(opts.CookieName, opts.TrustXForwardedFor)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := opts.KeyFn(r)

			if opts.AddRateLimitHeaders {
				w.Header().Set("X-RateLimit-RPS", formatFloat(opts.Store.RPS()))
				w.Header().Set("X-RateLimit-Burst", formatInt(opts.Store.Burst()))
			}

			if !opts.Store.Allow(key) {
				w.Header().Set("Retry-After", formatInt(int(opts.RetryAfter.Seconds())))
				http.Error(w, http.StatusText(opts.RejectStatus), opts.RejectStatus)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

type ConcurrencyOptions struct {
	Max            int
	RejectStatus   int
	AcquireTimeout time.Duration
}

// ConcurrencyMiddleware limita requisições simultâneas. Max <= 0 desliga o limite.
// AcquireTimeout <= 0 espera até o contexto da requisição encerrar.
func ConcurrencyMiddleware(opts ConcurrencyOptions) func(next http.Handler) http.Handler {
	if opts.Max <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	if opts.RejectStatus == 0 {
		opts.RejectStatus = http.StatusServiceUnavailable
	}
	pool := NewPool(opts.Max)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			release, ok := pool.Acquire(r.Context(), opts.AcquireTimeout)
			if !ok {
				http.Error(w, http.StatusText(opts.RejectStatus), opts.RejectStatus)
				return
			}
			defer release()

			next.ServeHTTP(w, r)
		})
	}
}
