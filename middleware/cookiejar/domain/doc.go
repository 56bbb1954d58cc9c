// Package domain define o jar de cookies por requisição e os contratos
// consumidos por ele (acesso a dados, estatísticas).
//
// Este pacote não depende de net/http. O parsing/serialização de headers
// fica na camada infra e a escrita da resposta no pacote cookiejar.
package domain
