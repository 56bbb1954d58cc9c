package application

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"golang.org/x/exp/slices"
	"golang.org/x/sync/errgroup"

	"query-gateway/middleware/cookiejar/domain"
	"query-gateway/middleware/cookiejar/reqctx"
)

var (
	// ErrUnknownField indica um campo sem resolver registrado.
	ErrUnknownField = errors.New("unknown field")
	// ErrDataAccess embrulha falhas do Counter.
	ErrDataAccess = errors.New("data access failed")
)

// CounterKey é a chave do acesso a dados no contexto da requisição.
var CounterKey = reqctx.NewKey[domain.Counter]("counter")

// Resolver resolve um campo da query. Pode ler e alterar o jar da requisição.
type Resolver func(ctx context.Context) (any, error)

// QueryService resolve os campos pedidos. Os resolvers rodam concorrentemente
// e compartilham o mesmo jar da requisição.
type QueryService struct {
	Resolvers map[string]Resolver
	// Default é usado quando nenhum campo é pedido.
	Default []string
}

// NewQueryService registra os resolvers padrão: posts, visits e second.
func NewQueryService(logger *log.Logger) QueryService {
	if logger == nil {
		logger = log.Default()
	}
	return QueryService{
		Resolvers: map[string]Resolver{
			"posts":  Posts(logger),
			"visits": Visits,
			"second": Second,
		},
		Default: []string{"posts"},
	}
}

// Required lista os colaboradores que os resolvers padrão buscam no contexto.
func (s QueryService) Required() []reqctx.Requirement {
	return []reqctx.Requirement{CounterKey}
}

// Execute resolve cada campo (sem repetição) em sua própria goroutine.
// Na primeira falha o contexto dos demais é cancelado e o erro é retornado.
func (s QueryService) Execute(ctx context.Context, fields []string) (map[string]any, error) {
	if len(fields) == 0 {
		fields = s.Default
	}

	uniq := make([]string, 0, len(fields))
	for _, f := range fields {
		if _, ok := s.Resolvers[f]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownField, f)
		}
		if !slices.Contains(uniq, f) {
			uniq = append(uniq, f)
		}
	}

	var (
		mu  sync.Mutex
		out = make(map[string]any, len(uniq))
	)
	g, gctx := errgroup.WithContext(ctx)
	for _, f := range uniq {
		resolve := s.Resolvers[f]
		g.Go(func() error {
			v, err := resolve(gctx)
			if err != nil {
				return fmt.Errorf("resolve %s: %w", f, err)
			}
			mu.Lock()
			out[f] = v
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
