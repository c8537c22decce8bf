package slug

import (
	"regexp"
	"strings"
)

var (
	disallowed = regexp.MustCompile(`[^a-z0-9 -]+`)
	whitespace = regexp.MustCompile(`\s+`)
	multiDash  = regexp.MustCompile(`-+`)
)

// Make строит URL-безопасный слаг из заголовка кейса.
// Функция идемпотентна: повторный вызов на собственном результате ничего не меняет.
func Make(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))
	s = disallowed.ReplaceAllString(s, "")
	s = whitespace.ReplaceAllString(s, "-")
	s = multiDash.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	return s
}
