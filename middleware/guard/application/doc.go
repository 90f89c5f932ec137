// Package application contém as regras do RequestGuard: sanitização de texto,
// validação do pedido de banner e validação de upload.
//
// Tudo aqui é puro e síncrono. A cota por identidade fica em
// middleware/ratelimit.
package application
