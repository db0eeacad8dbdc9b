package coord

import (
	"fmt"
	"strings"
	"unicode"
)

// NeedsQuotes reports whether a sheet name must be wrapped in single quotes
// when used as a formula qualifier: names with whitespace, brackets,
// hyphens, quotes, punctuation or non-ASCII letters, names starting with a
// digit, and names that read as an A1 or R1C1 cell address.
func NeedsQuotes(name string) bool {
	if name == "" {
		return false
	}
	for i, ch := range name {
		switch {
		case ch > unicode.MaxASCII:
			return true
		case ch == '_' || ch == '.':
		case isLetter(byte(ch)):
		case isDigit(byte(ch)):
			if i == 0 {
				return true
			}
		default:
			return true
		}
	}
	if _, err := Parse(name); err == nil || isR1C1(name) {
		return true
	}
	upper := strings.ToUpper(name)
	return upper == "TRUE" || upper == "FALSE"
}

// QuoteSheetName renders a qualifier name, quoting only when NeedsQuotes.
func QuoteSheetName(name string) string {
	if !NeedsQuotes(name) {
		return name
	}
	return ForceQuote(name)
}

// ForceQuote wraps name in single quotes, doubling embedded quotes.
func ForceQuote(name string) string {
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}

// UnquoteSheetName reverses QuoteSheetName. Bare names are returned as is.
func UnquoteSheetName(s string) (string, error) {
	if !strings.HasPrefix(s, "'") {
		if s == "" || strings.ContainsAny(s, "' ") {
			return "", fmt.Errorf("%w: sheet qualifier %q", ErrInvalidAddress, s)
		}
		return s, nil
	}
	if len(s) < 3 || !strings.HasSuffix(s, "'") {
		return "", fmt.Errorf("%w: sheet qualifier %q", ErrInvalidAddress, s)
	}
	inner := s[1 : len(s)-1]
	name := strings.ReplaceAll(inner, "''", "'")
	if strings.Count(inner, "'") != 2*strings.Count(name, "'") {
		return "", fmt.Errorf("%w: unescaped quote in %q", ErrInvalidAddress, s)
	}
	return name, nil
}

// isR1C1 matches R[0-9]*C[0-9]*, case-insensitively.
func isR1C1(name string) bool {
	i := 0
	if i >= len(name) || (name[i] != 'R' && name[i] != 'r') {
		return false
	}
	i++
	for i < len(name) && isDigit(name[i]) {
		i++
	}
	if i >= len(name) || (name[i] != 'C' && name[i] != 'c') {
		return false
	}
	i++
	for i < len(name) && isDigit(name[i]) {
		i++
	}
	return i == len(name)
}
