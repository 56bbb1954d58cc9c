package infra

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"query-gateway/middleware/cookiejar/domain"
)

// RedisStatsStore grava contadores por requisição em hashes do Redis:
//
//	<prefix>:total                 requests/errors/emitted/dropped
//	<prefix>:minute:<yyyymmddhhmm> idem, com TTL
//	<prefix>:route                 "<METHOD> <path>:<campo>"
type RedisStatsStore struct {
	rdb redis.Cmdable

	prefix string
	// ttl vale só para os buckets por minuto; total é cumulativo.
	ttl    time.Duration
	bucket string // "minute" (padrão) ou "none"
}

type RedisStatsOption func(*RedisStatsStore)

func WithStatsPrefix(prefix string) RedisStatsOption {
	return func(s *RedisStatsStore) {
		if p := strings.Trim(prefix, ":"); p != "" {
			s.prefix = p
		}
	}
}

func WithStatsTTL(d time.Duration) RedisStatsOption {
	return func(s *RedisStatsStore) { s.ttl = d }
}

func WithStatsBucket(bucket string) RedisStatsOption {
	return func(s *RedisStatsStore) { s.bucket = strings.ToLower(strings.TrimSpace(bucket)) }
}

func NewRedisStatsStore(rdb redis.Cmdable, opts ...RedisStatsOption) *RedisStatsStore {
	s := &RedisStatsStore{
		rdb:    rdb,
		prefix: "cookiejar:stats",
		ttl:    24 * time.Hour,
		bucket: "minute",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RedisStatsStore) Record(ctx context.Context, ev domain.StatsEvent) error {
	if s == nil || s.rdb == nil {
		return nil
	}

	at := ev.At
	if at.IsZero() {
		at = time.Now()
	}

	pipe := s.rdb.Pipeline()
	incr := func(key, prefix string) {
		pipe.HIncrBy(ctx, key, prefix+"requests", 1)
		if ev.Status >= 500 {
			pipe.HIncrBy(ctx, key, prefix+"errors", 1)
		}
		if ev.Emitted > 0 {
			pipe.HIncrBy(ctx, key, prefix+"emitted", int64(ev.Emitted))
		}
		if ev.Dropped > 0 {
			pipe.HIncrBy(ctx, key, prefix+"dropped", int64(ev.Dropped))
		}
	}

	incr(s.prefix+":total", "")

	if s.bucket == "minute" {
		bucketKey := fmt.Sprintf("%s:minute:%s", s.prefix, at.UTC().Format("200601021504"))
		incr(bucketKey, "")
		if s.ttl > 0 {
			pipe.Expire(ctx, bucketKey, s.ttl)
		}
	}

	route := strings.TrimSpace(strings.TrimSpace(ev.Method) + " " + strings.TrimSpace(ev.Path))
	if route != "" {
		incr(s.prefix+":route", route+":")
	}

	_, err := pipe.Exec(ctx)
	return err
}
