// Package domain define o pedido de banner, o arquivo enviado e a taxonomia
// de erros da validação, sem dependência de net/http.
package domain
