package domain

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Placeholder tokens understood in settings templates
const (
	TokenDate          = "{FECHA}"
	TokenOffice        = "{OFICINA}"
	TokenLocation      = "{UBICACION}"
	TokenCustodianName = "{CUSTODIO_NOMBRE}"
)

// ReplaceMode selects how many occurrences of a token are substituted
type ReplaceMode int

const (
	// ReplaceAll substitutes every occurrence of each token
	ReplaceAll ReplaceMode = iota
	// ReplaceFirst substitutes only the first occurrence of each token.
	// Repeated tokens after the first are left verbatim.
	ReplaceFirst
)

// ParseReplaceMode maps the config value ("all" or "first")
func ParseReplaceMode(s string) (ReplaceMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return ReplaceAll, nil
	case "first":
		return ReplaceFirst, nil
	default:
		return ReplaceAll, fmt.Errorf("%w: placeholder mode %q (valid: all, first)", ErrValidation, s)
	}
}

func (m ReplaceMode) String() string {
	if m == ReplaceFirst {
		return "first"
	}
	return "all"
}

// Substitute replaces tokens in template with their values.
// Tokens are applied in a fixed (sorted) order so the result does not depend
// on map iteration. Sequences that are not in values are left untouched.
func Substitute(template string, values map[string]string, mode ReplaceMode) string {
	tokens := make([]string, 0, len(values))
	for token := range values {
		tokens = append(tokens, token)
	}
	sort.Strings(tokens)

	n := -1
	if mode == ReplaceFirst {
		n = 1
	}

	out := template
	for _, token := range tokens {
		if token == "" {
			continue
		}
		out = strings.Replace(out, token, values[token], n)
	}
	return out
}

// SplitLines splits a multi-line text into paragraph lines.
// n newlines always give n+1 lines, empty ones included.
func SplitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.Split(text, "\n")
}

var spanishMonths = [...]string{
	"enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
}

// FormatLongDate renders t as "<day> de <month> de <year>" with the Spanish
// month name, e.g. "5 de octubre de 2026".
func FormatLongDate(t time.Time) string {
	return fmt.Sprintf("%d de %s de %d", t.Day(), spanishMonths[t.Month()-1], t.Year())
}
