package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"query-gateway/middleware/cookiejar"
	"query-gateway/middleware/cookiejar/application"
	"query-gateway/middleware/cookiejar/domain"
	"query-gateway/middleware/cookiejar/infra"
	"query-gateway/middleware/cookiejar/reqctx"
	"query-gateway/middleware/throttle"
)

func main() {
	// .env é opcional
	_ = godotenv.Load()

	cfg, err := readConfig()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var rdb *redis.Client
	if cfg.needsRedis() {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.redisAddr,
			Password: cfg.redisPassword,
			DB:       cfg.redisDB,
		})
		defer func() { _ = rdb.Close() }()

		pingCtx, cancelPing := context.WithTimeout(ctx, 2*time.Second)
		_, err := rdb.Ping(pingCtx).Result()
		cancelPing()
		if err != nil {
			log.Fatalf("redis ping error: %v", err)
		}
	}

	counter, closeCounter, err := openCounter(ctx, cfg, rdb)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	defer closeCounter()

	var stats domain.StatsStore
	if cfg.statsEnabled {
		stats = infra.NewRedisStatsStore(
			rdb,
			infra.WithStatsPrefix(cfg.statsPrefix),
			infra.WithStatsTTL(cfg.statsTTL),
		)
	}

	var store *throttle.Store
	if cfg.rateEnabled {
		store = throttle.NewStore(cfg.rateRPS, cfg.rateBurst)
		store.StartJanitor(ctx)
	}

	h := newRouter(cfg, routerDeps{
		counter: counter,
		stats:   stats,
		limiter: store,
		logger:  log.Default(),
	})

	srv := &http.Server{
		Addr:              cfg.listenAddr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       90 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Printf("query gateway listening on %s (counter=%s)", cfg.listenAddr, cfg.counterBackend)
	log.Printf("rate: enabled=%v rps=%.3f burst=%d cookie=%q trustXFF=%v", cfg.rateEnabled, cfg.rateRPS, cfg.rateBurst, cfg.rateCookie, cfg.trustXFF)
	log.Printf("concurrency: max=%d acquireTimeout=%s", cfg.concurrencyMax, cfg.concurrencyTimeout)
	log.Printf("cookies: discardOnError=%v stats=%v", cfg.discardOnError, cfg.statsEnabled)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("server error: %v", err)
	}
}

// openCounter cria o acesso a dados conforme COUNTER_BACKEND.
func openCounter(ctx context.Context, cfg config, rdb *redis.Client) (domain.Counter, func(), error) {
	switch cfg.counterBackend {
	case "postgres":
		db, err := infra.OpenPostgres(ctx, cfg.databaseURL, cfg.pgMaxConns)
		if err != nil {
			return nil, nil, err
		}
		return infra.NewPostgresCounter(db, infra.WithCountQuery(cfg.countQuery)), func() { _ = db.Close() }, nil
	case "redis":
		return infra.NewRedisCounter(rdb, cfg.counterRedisKey), func() {}, nil
	case "memory":
		return infra.NewMemoryCounter(0), func() {}, nil
	}
	return nil, nil, fmt.Errorf("unknown counter backend %q", cfg.counterBackend)
}

type routerDeps struct {
	counter domain.Counter
	stats   domain.StatsStore
	limiter *throttle.Store
	logger  *log.Logger
}

// newRouter monta as rotas. Só /query passa pelo rate limit e pelo limite de
// concorrência, já que é a rota que usa o banco.
func newRouter(cfg config, deps routerDeps) http.Handler {
	svc := application.NewQueryService(deps.logger)

	var query http.Handler = cookiejar.Handler(cookiejar.Options{
		Collaborators:  []reqctx.Collaborator{reqctx.Provide(application.CounterKey, deps.counter)},
		Require:        svc.Required(),
		Stats:          deps.stats,
		Logger:         deps.logger,
		DiscardOnError: cfg.discardOnError,
	}, cookiejar.QueryHandler(svc))

	query = throttle.ConcurrencyMiddleware(throttle.ConcurrencyOptions{
		Max:            cfg.concurrencyMax,
		AcquireTimeout: cfg.concurrencyTimeout,
	})(query)
	query = throttle.Middleware(throttle.Options{
		Store:               deps.limiter,
		CookieName:          cfg.rateCookie,
		TrustXForwardedFor:  cfg.trustXFF,
		RetryAfter:          cfg.retryAfter,
		AddRateLimitHeaders: cfg.addHeaders,
	})(query)

	mux := http.NewServeMux()
	mux.Handle("GET /query", query)
	mux.Handle("POST /query", query)
	mux.HandleFunc("GET /hello/{name}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = io.WriteString(w, "Hello, "+r.PathValue("name")+"!")
	})
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return mux
}
