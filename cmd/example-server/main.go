package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"query-gateway/middleware/cookiejar"
	"query-gateway/middleware/cookiejar/application"
	"query-gateway/middleware/cookiejar/infra"
	"query-gateway/middleware/cookiejar/reqctx"
	"query-gateway/middleware/throttle"
)

func main() {
	// Exemplo: middleware de cookies direto no seu webserver, sem banco
	counter := infra.NewMemoryCounter(42)
	stats := infra.NewMemoryStatsStore()
	svc := application.NewQueryService(log.Default())

	store := throttle.NewStore(5, 10)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	store.StartJanitor(ctx)

	mux := http.NewServeMux()
	mux.Handle("/query", cookiejar.Handler(cookiejar.Options{
		Collaborators: []reqctx.Collaborator{reqctx.Provide(application.CounterKey, counter)},
		Require:       svc.Required(),
		Stats:         stats,
	}, cookiejar.QueryHandler(svc)))

	// contadores do próprio exemplo, sem Redis
	mux.HandleFunc("/stats", func(w http.ResponseWriter, r *http.Request) {
		total := stats.Total()
		log.Printf("stats: requests=%d errors=%d emitted=%d dropped=%d", total.Requests, total.Errors, total.Emitted, total.Dropped)
		w.WriteHeader(http.StatusNoContent)
	})

	h := http.Handler(mux)
	h = throttle.ConcurrencyMiddleware(throttle.ConcurrencyOptions{Max: 50})(h)
	h = throttle.Middleware(throttle.Options{
		Store:               store,
		CookieName:          "sid", // vazio para usar só IP
		TrustXForwardedFor:  true,
		AddRateLimitHeaders: true,
	})(h)

	addr := ":8081"
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		addr = v
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       90 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Printf("example server listening on %s", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("server error: %v", err)
	}
}
