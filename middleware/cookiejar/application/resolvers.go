package application

import (
	"context"
	"fmt"
	"log"
	"strconv"

	"query-gateway/middleware/cookiejar/domain"
	"query-gateway/middleware/cookiejar/reqctx"
)

// Posts lê o cookie n2, grava n2=vvv e responde a contagem do Counter.
// O cookie é gravado antes da query: se a query falhar, a mutação já existe
// e a política de erro do handler decide se ela vai para a resposta.
func Posts(logger *log.Logger) Resolver {
	return func(ctx context.Context) (any, error) {
		jar := reqctx.Jar(ctx)
		counter := reqctx.Value(ctx, CounterKey)

		if v, ok := jar.Get("n2"); ok {
			logger.Printf("posts: found n2=%q", v)
		} else {
			logger.Printf("posts: n2 not set")
		}
		if err := jar.Set("n2", "vvv"); err != nil {
			return nil, err
		}

		n, err := counter.Count(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrDataAccess, err)
		}
		return n, nil
	}
}

// Visits incrementa o cookie visits de forma atômica e retorna o novo valor.
// Valores não numéricos recomeçam do zero.
func Visits(ctx context.Context) (any, error) {
	next, err := reqctx.Jar(ctx).Update("visits", func(v string, ok bool) string {
		n, err := strconv.Atoi(v)
		if !ok || err != nil || n < 0 {
			n = 0
		}
		return strconv.Itoa(n + 1)
	})
	if err != nil {
		return nil, err
	}
	n, _ := strconv.Atoi(next)
	return n, nil
}

// Second grava o cookie de sessão second=another.
func Second(ctx context.Context) (any, error) {
	const v = "another"
	if err := reqctx.Jar(ctx).Set("second", v, domain.Session()); err != nil {
		return nil, err
	}
	return v, nil
}
