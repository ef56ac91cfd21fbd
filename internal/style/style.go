// Package style holds the naming conventions checked during lowering and the
// converters used to build rename suggestions.
package style

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// IsSnakeCase reports whether name contains no upper-case letters and no
// doubled underscores. Leading underscores are ignored.
func IsSnakeCase(name string) bool {
	trimmed := strings.TrimLeft(name, "_")
	if strings.Contains(trimmed, "__") {
		return false
	}
	return !strings.ContainsFunc(trimmed, unicode.IsUpper)
}

// IsUpperCamelCase reports whether name has no underscores and does not start
// with a lower-case letter. Leading underscores are ignored.
func IsUpperCamelCase(name string) bool {
	trimmed := strings.TrimLeft(name, "_")
	if strings.ContainsRune(trimmed, '_') {
		return false
	}
	r, _ := utf8.DecodeRuneInString(trimmed)
	return !unicode.IsLower(r)
}

// ToSnakeCase converts name to snake_case, keeping leading underscores.
func ToSnakeCase(name string) string {
	trimmed := strings.TrimLeft(name, "_")
	prefix := name[:len(name)-len(trimmed)]

	// casers keep state, so each call gets its own
	lower := cases.Lower(language.Und)
	words := splitWords(trimmed)
	for i, w := range words {
		words[i] = lower.String(w)
	}
	return prefix + strings.Join(words, "_")
}

// ToUpperCamelCase converts name to UpperCamelCase, keeping leading underscores.
func ToUpperCamelCase(name string) string {
	trimmed := strings.TrimLeft(name, "_")
	prefix := name[:len(name)-len(trimmed)]

	title := cases.Title(language.Und, cases.NoLower)
	var sb strings.Builder
	sb.WriteString(prefix)
	for _, w := range splitWords(trimmed) {
		sb.WriteString(title.String(w))
	}
	return sb.String()
}

// splitWords breaks name at underscores and at lower-to-upper transitions.
// A run of capitals stays one word unless it is followed by a lower-case
// letter: "HTTPServer" -> ["HTTP", "Server"].
func splitWords(name string) []string {
	var words []string
	runes := []rune(name)
	start := 0
	flush := func(end int) {
		if end > start {
			words = append(words, string(runes[start:end]))
		}
	}
	for i, r := range runes {
		if r == '_' {
			flush(i)
			start = i + 1
			continue
		}
		if i == start || !unicode.IsUpper(r) {
			continue
		}
		prev := runes[i-1]
		switch {
		case unicode.IsLower(prev), unicode.IsDigit(prev):
			flush(i)
			start = i
		case unicode.IsUpper(prev) && i+1 < len(runes) && unicode.IsLower(runes[i+1]):
			flush(i)
			start = i
		}
	}
	flush(len(runes))
	return words
}
