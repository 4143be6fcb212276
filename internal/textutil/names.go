package textutil

import (
	"strings"
	"unicode"
)

// ClipStem makes name safe to lead a clip filename. Path separators, colons
// and asterisks become dashes; ?"<>| and control characters are dropped.
func ClipStem(name string) string {
	return strings.TrimSpace(strings.Map(stemRune, strings.TrimSpace(name)))
}

func stemRune(r rune) rune {
	switch r {
	case '/', '\\', ':', '*':
		return '-'
	case '?', '"', '<', '>', '|':
		return -1
	}
	if unicode.IsControl(r) {
		return -1
	}
	return r
}

// LabelToken lowercases an operator answer such as a motor count into a
// filename token of ASCII letters, digits, dashes and underscores. Empty
// results read as "unknown".
func LabelToken(value string) string {
	token := strings.Map(func(r rune) rune {
		switch {
		case r >= 'A' && r <= 'Z':
			return unicode.ToLower(r)
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, strings.TrimSpace(value))
	if token = strings.Trim(token, "_-"); token == "" {
		return "unknown"
	}
	return token
}
