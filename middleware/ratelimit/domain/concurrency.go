package domain

import "context"

// SlotPool representa a capacidade finita de chamadas ao provedor de geração.
//
// A semântica é: Acquire bloqueia até conseguir uma vaga ou até o ctx encerrar.
// Ao adquirir, retorna uma função de release que deve ser chamada exatamente uma vez.
// Implementações podem também impor um ritmo (vagas por segundo) além do teto.
type SlotPool interface {
	Acquire(ctx context.Context) (release func(), ok bool)
}
