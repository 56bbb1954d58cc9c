package domain

import "context"

// Counter é o acesso a dados somente leitura usado pela query principal
// (ex.: COUNT(*) em uma tabela). Implementações ficam na camada infra.
type Counter interface {
	Count(ctx context.Context) (int64, error)
}
