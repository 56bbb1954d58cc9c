package infra

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisCounter responde a contagem com SCARD sobre um set do Redis.
type RedisCounter struct {
	rdb redis.Cmdable
	key string
}

func NewRedisCounter(rdb redis.Cmdable, key string) *RedisCounter {
	if key == "" {
		key = "api:projects"
	}
	return &RedisCounter{rdb: rdb, key: key}
}

// Count implementa domain.Counter. Chave inexistente conta zero.
func (c *RedisCounter) Count(ctx context.Context) (int64, error) {
	n, err := c.rdb.SCard(ctx, c.key).Result()
	if err != nil {
		return 0, fmt.Errorf("redis count %s: %w", c.key, err)
	}
	return n, nil
}
