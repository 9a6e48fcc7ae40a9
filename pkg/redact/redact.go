// redact — маскировка чувствительных значений перед записью в лог.
// tours-service логирует email только через Email: наружу уходят первые
// две руны локальной части и домен целиком.
package redact

import "strings"

// Email маскирует локальную часть адреса: "foobar@example.com" ->
// "fo***@example.com". Строка без единственного '@' маскируется целиком.
func Email(s string) string {
	local, domain, ok := strings.Cut(s, "@")
	if !ok || strings.Contains(domain, "@") {
		return "***"
	}

	runes := []rune(local)
	if len(runes) <= 2 {
		return "***@" + domain
	}

	return string(runes[:2]) + "***@" + domain
}
