// Package reqctx expõe o jar de cookies e os demais colaboradores da
// requisição (ex.: acesso a dados) para o código dos resolvers.
//
// O registro é tipado (Key[T]) e montado uma vez por requisição por Attach.
// Buscar um colaborador que não foi anexado é erro de programação: Value
// entra em pânico em vez de devolver um jar vazio que esconderia as mutações.
package reqctx
