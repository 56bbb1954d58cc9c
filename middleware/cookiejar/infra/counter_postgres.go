package infra

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// DefaultCountQuery é a query agregada respondida pelo serviço.
const DefaultCountQuery = "SELECT COUNT(*) FROM api.projects"

// PostgresCounter executa um COUNT somente leitura via database/sql (driver lib/pq).
//
// O *sql.DB é criado uma vez no boot e compartilhado entre requisições; ele
// nunca guarda estado por requisição.
type PostgresCounter struct {
	db    *sql.DB
	query string
}

type PostgresCounterOption func(*PostgresCounter)

func WithCountQuery(query string) PostgresCounterOption {
	return func(c *PostgresCounter) {
		if query != "" {
			c.query = query
		}
	}
}

func NewPostgresCounter(db *sql.DB, opts ...PostgresCounterOption) *PostgresCounter {
	c := &PostgresCounter{db: db, query: DefaultCountQuery}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Count implementa domain.Counter.
func (c *PostgresCounter) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := c.db.QueryRowContext(ctx, c.query).Scan(&n); err != nil {
		return 0, fmt.Errorf("postgres count: %w", err)
	}
	return n, nil
}

// OpenPostgres abre o pool de conexões e valida com ping.
// maxConns <= 0 usa 5 conexões.
func OpenPostgres(ctx context.Context, dsn string, maxConns int) (*sql.DB, error) {
	if maxConns <= 0 {
		maxConns = 5
	}
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(maxConns)
	db.SetMaxIdleConns(maxConns)
	db.SetConnMaxIdleTime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}
