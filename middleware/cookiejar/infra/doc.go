// Package infra contém implementações concretas para os contratos do pacote domain.
//
// Exemplos:
//   - HeaderCodec: parsing do header Cookie e serialização de Set-Cookie (net/http)
//   - PostgresCounter / RedisCounter / MemoryCounter: acesso a dados da query principal
//   - MemoryStatsStore / RedisStatsStore: estatísticas por requisição
package infra
