// Package application contém os casos de uso da query: os resolvers de cada
// campo e a execução concorrente deles dentro de uma requisição.
//
// Ele depende de domain e reqctx e não conhece net/http. Os resolvers pegam
// o jar e o Counter pelo contexto da requisição (ver reqctx).
package application
