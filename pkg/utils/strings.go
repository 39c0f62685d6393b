package utils

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var nonAlnum = regexp.MustCompile(`[^A-Za-z0-9]+`)

// RemoveAccents removes accents from a string, converting accented characters to their base forms
func RemoveAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, _ := transform.String(t, s)
	return result
}

// SplitWords splits a string into words, handling camelCase, PascalCase, snake_case, and kebab-case
func SplitWords(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	// Remove accents first
	s = RemoveAccents(s)

	parts := nonAlnum.Split(s, -1)
	var result []string
	for _, part := range parts {
		if part == "" {
			continue
		}
		result = append(result, SplitCamelCase(part)...)
	}
	return result
}

// SplitCamelCase splits a camelCase or PascalCase string into words,
// keeping acronym runs together ("XMLHttp" -> "XML", "Http")
func SplitCamelCase(s string) []string {
	if s == "" {
		return nil
	}

	var parts []string
	var current strings.Builder

	runes := []rune(s)
	for i, r := range runes {
		isNewWord := false
		if i > 0 && isUppercase(r) {
			if !isUppercase(runes[i-1]) {
				// Previous char was lowercase, so this starts a new word
				isNewWord = true
			} else if i < len(runes)-1 && !isUppercase(runes[i+1]) {
				// Previous char was uppercase, but next char is lowercase
				isNewWord = true
			}
		}

		if isNewWord && current.Len() > 0 {
			parts = append(parts, current.String())
			current.Reset()
		}

		current.WriteRune(r)
	}

	if current.Len() > 0 {
		parts = append(parts, current.String())
	}

	return parts
}

// isUppercase checks if a rune is uppercase
func isUppercase(r rune) bool {
	return r >= 'A' && r <= 'Z'
}

// ToPascalCase converts a string to PascalCase
func ToPascalCase(s string) string {
	parts := SplitWords(s)
	if len(parts) == 0 {
		return ""
	}

	var b strings.Builder
	for _, p := range parts {
		if p == "" {
			continue
		}
		b.WriteString(strings.ToUpper(p[:1]))
		if len(p) > 1 {
			b.WriteString(strings.ToLower(p[1:]))
		}
	}
	return b.String()
}

// ToCamelCase converts a string to camelCase
func ToCamelCase(s string) string {
	p := ToPascalCase(s)
	if p == "" {
		return ""
	}
	return strings.ToLower(p[:1]) + p[1:]
}

// ToSnakeCase converts a string to snake_case
func ToSnakeCase(s string) string {
	parts := SplitWords(s)
	if len(parts) == 0 {
		return ""
	}

	for i := range parts {
		parts[i] = strings.ToLower(parts[i])
	}
	return strings.Join(parts, "_")
}

// ToKebabCase converts a string to kebab-case
func ToKebabCase(s string) string {
	parts := SplitWords(s)
	if len(parts) == 0 {
		return ""
	}

	for i := range parts {
		parts[i] = strings.ToLower(parts[i])
	}
	return strings.Join(parts, "-")
}

// ToScreamingSnakeCase converts a string to SCREAMING_SNAKE_CASE
func ToScreamingSnakeCase(s string) string {
	return strings.ToUpper(ToSnakeCase(s))
}
