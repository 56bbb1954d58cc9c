// Package throttle protege o endpoint de query com rate limit por cliente e
// limite de requisições simultâneas.
//
// A chave do cliente vem, nesta ordem, de um cookie configurado (ex.: "sid"),
// do primeiro IP do X-Forwarded-For (se confiável) ou do RemoteAddr.
//
// O limite de concorrência costuma ser igual ao tamanho do pool do banco, para
// que requisições excedentes falhem rápido (503) em vez de esperar conexão.
package throttle
