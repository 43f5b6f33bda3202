// Package weekday defines the seven Portuguese weekday names used as record
// keys and the lenient parsing applied to user input.
package weekday

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Canonical weekday names, Monday first.
const (
	Monday    = "segunda-feira"
	Tuesday   = "terça-feira"
	Wednesday = "quarta-feira"
	Thursday  = "quinta-feira"
	Friday    = "sexta-feira"
	Saturday  = "sábado"
	Sunday    = "domingo"
)

var ordered = [7]string{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

var byKey = func() map[string]string {
	m := make(map[string]string, len(ordered))
	for _, name := range ordered {
		m[key(name)] = name
	}
	return m
}()

// All returns the canonical names in calendar order.
func All() []string {
	out := make([]string, len(ordered))
	copy(out, ordered[:])
	return out
}

// Parse maps user input to a canonical weekday name. Matching ignores case,
// surrounding spaces, Unicode normalization form and diacritics, so
// "TERÇA-FEIRA" and "terca-feira" both resolve to Tuesday.
func Parse(input string) (string, bool) {
	name, ok := byKey[key(input)]
	return name, ok
}

// Position returns the zero-based calendar position of a canonical name.
func Position(name string) (int, bool) {
	for i, n := range ordered {
		if n == name {
			return i, true
		}
	}
	return 0, false
}

// Label returns the display form used in printed documents ("Segunda-feira").
func Label(name string) string {
	if name == "" {
		return ""
	}
	r := []rune(name)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

func key(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), cases.Fold(), norm.NFC)
	out, _, err := transform.String(t, strings.TrimSpace(s))
	if err != nil {
		return strings.ToLower(strings.TrimSpace(s))
	}
	return out
}
