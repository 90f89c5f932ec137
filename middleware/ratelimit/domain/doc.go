// Package domain define contratos e tipos de domínio para a cota por identidade
// (janela fixa) e para o limite de chamadas simultâneas ao provedor de imagens.
//
// Este pacote não depende de net/http nem de implementações concretas.
// A máquina de estados da janela fixa (Decide) vive aqui para que o store em
// memória e o script do Redis sigam exatamente as mesmas transições.
package domain
