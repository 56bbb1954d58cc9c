package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type config struct {
	listenAddr string

	counterBackend string // postgres | redis | memory
	databaseURL    string
	pgMaxConns     int
	countQuery     string

	redisAddr       string
	redisPassword   string
	redisDB         int
	counterRedisKey string

	rateEnabled bool
	rateRPS     float64
	rateBurst   int
	rateCookie  string
	trustXFF    bool
	retryAfter  time.Duration
	addHeaders  bool

	concurrencyMax     int
	concurrencyTimeout time.Duration

	statsEnabled bool
	statsPrefix  string
	statsTTL     time.Duration

	discardOnError bool
}

func readConfig() (config, error) {
	cfg := config{}

	port, ok := getenvInt("PORT")
	if v := os.Getenv("PORT"); v != "" && !ok {
		return config{}, fmt.Errorf("PORT should be an integer, got %q", v)
	}
	cfg.listenAddr = os.Getenv("LISTEN_ADDR")
	if cfg.listenAddr == "" {
		if !ok {
			return config{}, errors.New("PORT is not set")
		}
		cfg.listenAddr = ":" + strconv.Itoa(port)
	}

	cfg.counterBackend = strings.ToLower(getenvDefault("COUNTER_BACKEND", "postgres"))
	cfg.databaseURL = os.Getenv("DATABASE_URL")
	cfg.pgMaxConns = getenvIntDefault("PG_MAX_CONNS", 5)
	cfg.countQuery = os.Getenv("COUNT_QUERY")

	cfg.redisAddr = os.Getenv("REDIS_ADDR")
	cfg.redisPassword = os.Getenv("REDIS_PASSWORD")
	cfg.redisDB = getenvIntDefault("REDIS_DB", 0)
	cfg.counterRedisKey = getenvDefault("COUNTER_REDIS_KEY", "api:projects")

	cfg.rateEnabled = getenvBoolDefault("RATE_ENABLED", true)
	cfg.rateRPS = getenvFloatDefault("RATE_RPS", 10)
	if burst, ok := getenvInt("RATE_BURST"); ok {
		cfg.rateBurst = burst
	} else {
		cfg.rateBurst = 20
		// com RPS < 1 uma rajada de 20 esconde o limite
		if getenvIsSet("RATE_RPS") && cfg.rateRPS > 0 && cfg.rateRPS < 1 {
			cfg.rateBurst = 1
		}
	}
	cfg.rateCookie = getenvDefault("RATE_COOKIE", "sid")
	cfg.trustXFF = getenvBoolDefault("TRUST_XFF", false)
	cfg.retryAfter = getenvDurationDefault("RETRY_AFTER", 1*time.Second)
	cfg.addHeaders = getenvBoolDefault("ADD_RATELIMIT_HEADERS", false)

	// padrão: tamanho do pool do banco
	cfg.concurrencyMax = getenvIntDefault("CONCURRENCY_MAX", cfg.pgMaxConns)
	cfg.concurrencyTimeout = getenvDurationDefault("CONCURRENCY_TIMEOUT", 2*time.Second)

	cfg.statsEnabled = getenvBoolDefault("STATS_ENABLED", false)
	cfg.statsPrefix = getenvDefault("STATS_PREFIX", "cookiejar:stats")
	cfg.statsTTL = getenvDurationDefault("STATS_TTL", 24*time.Hour)

	cfg.discardOnError = getenvBoolDefault("COOKIE_DISCARD_ON_ERROR", false)

	switch cfg.counterBackend {
	case "postgres":
		if cfg.databaseURL == "" {
			return config{}, errors.New("DATABASE_URL is not set")
		}
	case "redis":
		if strings.TrimSpace(cfg.redisAddr) == "" {
			return config{}, errors.New("REDIS_ADDR is required when COUNTER_BACKEND=redis")
		}
	case "memory":
	default:
		return config{}, fmt.Errorf("COUNTER_BACKEND must be postgres, redis or memory, got %q", cfg.counterBackend)
	}
	if cfg.statsEnabled && strings.TrimSpace(cfg.redisAddr) == "" {
		return config{}, errors.New("REDIS_ADDR is required when STATS_ENABLED=true")
	}
	if cfg.pgMaxConns <= 0 {
		return config{}, errors.New("PG_MAX_CONNS must be > 0")
	}
	if cfg.rateRPS <= 0 {
		return config{}, errors.New("RATE_RPS must be > 0")
	}
	if cfg.rateBurst <= 0 {
		return config{}, errors.New("RATE_BURST must be > 0")
	}
	if cfg.concurrencyMax < 0 {
		return config{}, errors.New("CONCURRENCY_MAX must be >= 0")
	}
	return cfg, nil
}

func (c config) needsRedis() bool {
	return c.counterBackend == "redis" || c.statsEnabled
}

func getenvDefault(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getenvIntDefault(k string, def int) int {
	if i, ok := getenvInt(k); ok {
		return i
	}
	return def
}

func getenvInt(k string) (int, bool) {
	v, ok := os.LookupEnv(k)
	if !ok || v == "" {
		return 0, false
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return i, true
}

func getenvIsSet(k string) bool {
	v, ok := os.LookupEnv(k)
	return ok && v != ""
}

func getenvFloatDefault(k string, def float64) float64 {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

func getenvBoolDefault(k string, def bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func getenvDurationDefault(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
