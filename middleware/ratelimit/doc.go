// Package ratelimit fornece adapters HTTP (net/http) para a cota por identidade
// e para o limite de chamadas simultâneas ao provedor de geração.
//
// Visão geral (camadas):
//
//   - domain: contratos e tipos (janela fixa, Decision, SlotPool), sem net/http
//   - application: casos de uso (TryAcquire/Allow, acquire com timeout)
//   - infra: stores em memória e Redis, semáforo com ritmo, estatísticas
//   - ratelimit (este pacote): middlewares HTTP + extração de chave + status/headers
//
// Fluxo por rota:
//
//  1. Extrai a chave (id do usuário autenticado, ou IP/header/XFF)
//  2. Chama a camada application para obter a decisão
//  3. Se bloqueado, responde 429 com Retry-After (cota) ou 503 (concorrência)
//  4. Se permitido, chama o próximo handler
//
// O binário cmd/server controla o comportamento por variáveis de ambiente,
// como RATE_STORE, RATE_SWEEP_EVERY, GENERATION_CONCURRENCY e PROVIDER_RPS.
package ratelimit
