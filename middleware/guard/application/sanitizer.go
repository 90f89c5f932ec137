package application

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"banner-guard/middleware/guard/domain"
)

// denylist é um filtro de melhor esforço para campos curtos que nunca são
// renderizados como HTML. Não é um parser: variações fora da lista passam.
// Tags perigosas casam pelo prefixo da abertura: "<scripty" também rejeita,
// senão o corte poderia expor um "<script" numa segunda passada.
var denylist = compileAll(
	`<script`,
	`<iframe`,
	`<object`,
	`<embed`,
	`<link`,
	`<meta`,
	`javascript:`,
	`on\w+\s*=`,
	`eval\s*\(`,
	`function\s*\(`,
	`setTimeout\s*\(`,
	`setInterval\s*\(`,
	`document\.`,
	`window\.`,
	`location\.`,
	`history\.`,
	`navigator\.`,
	`alert\s*\(`,
	`confirm\s*\(`,
	`prompt\s*\(`,
	`XMLHttpRequest`,
	`fetch\s*\(`,
	`import\s*\(`,
	`require\s*\(`,
	`process\.env`,
	`\.env`,
	`localStorage`,
	`sessionStorage`,
	`cookie`,
	`\.innerHTML`,
	`\.outerHTML`,
	`\.insertAdjacentHTML`,
	`\.write\(`,
	`\.writeln\(`,
)

var tagPattern = regexp.MustCompile(`<[^>]*>`)

func compileAll(patterns ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		out = append(out, regexp.MustCompile(`(?i)`+p))
	}
	return out
}

func rejected(s string) bool {
	for _, re := range denylist {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}

// Sanitize limpa um texto livre.
//
// Ordem: trim, denylist sobre o texto original, remoção de tags, denylist de
// novo sobre o resultado, trim, e por último o corte em maxLength runas.
// O corte vem por último para não esconder um padrão do texto inteiro.
// maxLength <= 0 desliga o corte.
func Sanitize(text string, maxLength int) (string, error) {
	return sanitizeField("text", text, maxLength)
}

func sanitizeField(field, text string, maxLength int) (string, error) {
	s := strings.TrimSpace(text)
	if rejected(s) {
		return "", domain.ContentRejected(field)
	}

	s = tagPattern.ReplaceAllString(s, "")
	if rejected(s) {
		return "", domain.ContentRejected(field)
	}
	s = strings.TrimSpace(s)

	return truncateRunes(s, maxLength), nil
}

// truncateRunes corta em runas para não partir um caractere multibyte.
// Espaço que sobra na borda do corte é mantido.
func truncateRunes(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
