// Package guard traduz as falhas do RequestGuard para HTTP e responde ao
// preflight CORS das rotas de escrita.
//
// Camadas:
//
//   - domain: pedido de banner, arquivo e taxonomia de erros
//   - application: sanitização e validação (go-playground/validator)
//   - guard (este pacote): status/corpo JSON de erro e preflight
package guard
