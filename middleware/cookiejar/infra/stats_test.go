package infra

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"query-gateway/middleware/cookiejar/domain"
)

func TestMemoryStatsStore_Record(t *testing.T) {
	s := NewMemoryStatsStore()
	ctx := context.Background()

	require.NoError(t, s.Record(ctx, domain.StatsEvent{Method: "GET", Path: "/query", Status: 200, Emitted: 2}))
	require.NoError(t, s.Record(ctx, domain.StatsEvent{Method: "GET", Path: "/query", Status: 503, Emitted: 1, Dropped: 1}))
	require.NoError(t, s.Record(ctx, domain.StatsEvent{Method: "POST", Path: "/query", Status: 400}))

	assert.Equal(t, Counters{Requests: 3, Errors: 1, Emitted: 3, Dropped: 1}, s.Total())

	routes := s.ByRoute()
	assert.Equal(t, Counters{Requests: 2, Errors: 1, Emitted: 3, Dropped: 1}, routes["GET /query"])
	assert.Equal(t, Counters{Requests: 1}, routes["POST /query"])
}

func TestRedisStatsStore_Record(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	s := NewRedisStatsStore(rdb, WithStatsPrefix("test:stats:"), WithStatsTTL(time.Hour))
	at := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)

	require.NoError(t, s.Record(context.Background(), domain.StatsEvent{
		Method: "GET", Path: "/query", Status: 500, Emitted: 2, Dropped: 1, At: at,
	}))

	assert.Equal(t, "1", mr.HGet("test:stats:total", "requests"))
	assert.Equal(t, "1", mr.HGet("test:stats:total", "errors"))
	assert.Equal(t, "2", mr.HGet("test:stats:total", "emitted"))
	assert.Equal(t, "1", mr.HGet("test:stats:total", "dropped"))

	bucket := "test:stats:minute:202403011230"
	assert.Equal(t, "1", mr.HGet(bucket, "requests"))
	assert.Equal(t, time.Hour, mr.TTL(bucket))

	assert.Equal(t, "1", mr.HGet("test:stats:route", "GET /query:requests"))
}

func TestRedisStatsStore_NoBucket(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	s := NewRedisStatsStore(rdb, WithStatsBucket("none"))
	require.NoError(t, s.Record(context.Background(), domain.StatsEvent{Status: 200}))

	assert.Equal(t, "1", mr.HGet("cookiejar:stats:total", "requests"))
	assert.False(t, mr.Exists("cookiejar:stats:route"))
	for _, k := range mr.Keys() {
		assert.NotContains(t, k, ":minute:")
	}
}

func TestRedisStatsStore_NilIsNoop(t *testing.T) {
	var s *RedisStatsStore
	assert.NoError(t, s.Record(context.Background(), domain.StatsEvent{}))
}
