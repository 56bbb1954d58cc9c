// Package cookiejar fornece o adapter HTTP (net/http) do jar de cookies por requisição.
//
// Visão geral (camadas):
//
//   - domain: Record, Jar (estado original x trabalho, delta) e contratos
//   - reqctx: registro tipado que entrega o jar e os colaboradores aos resolvers
//   - application: resolvers da query e execução concorrente
//   - infra: codec de headers, Counter (Postgres/Redis/memória), estatísticas
//   - cookiejar (este pacote): Handler, CookieWriter e tradução para status/headers
//
// Fluxo de uma requisição:
//
//  1. Lê o header Cookie e monta o jar (fragmentos inválidos são ignorados)
//  2. Anexa o jar e os colaboradores ao contexto
//  3. Chama o HandlerFunc (que pode disparar resolvers concorrentes)
//  4. Drena o delta do jar em headers Set-Cookie e escreve o payload JSON
//
// Se o contexto da requisição for cancelado antes do passo 4, nada é escrito.
// Erros do HandlerFunc ainda levam os cookies alterados, a menos que
// Options.DiscardOnError esteja ligado.
package cookiejar
