// Package infra contém implementações concretas (infraestrutura) para os contratos
// definidos no pacote domain.
//
// Exemplos:
//   - MemoryStore: janela fixa em memória, com Sweep para o janitor
//   - RedisStore: janela fixa compartilhada via script Lua
//   - ChanPool/PacedPool: semáforo para o provedor, com espaçamento via golang.org/x/time/rate
//   - MemoryStatsStore/RedisStatsStore: contadores de allow/deny
package infra
