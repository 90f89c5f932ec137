// Package application contém os casos de uso da cota por identidade (janela fixa)
// e do limite de chamadas simultâneas ao provedor.
//
// Ele depende apenas do pacote domain e não conhece net/http.
// Ex.: Service.TryAcquire(ctx, key, policy) retorna uma Decision
// (allow/deny + limite, restante e reset).
package application
