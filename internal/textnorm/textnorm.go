// Package textnorm canonicalizes free text for lexical comparison.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize lower-cases text, folds accents, turns every non letter/digit rune
// (including the `_`, `-`, `+` separators) into a space, collapses whitespace
// and trims. Normalize(Normalize(s)) == Normalize(s).
func Normalize(text string) string {
	if text == "" {
		return ""
	}

	folded := foldAccents(strings.ToLower(text))

	var b strings.Builder
	b.Grow(len(folded))
	pendingSpace := false
	for _, r := range folded {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			pendingSpace = b.Len() > 0
			continue
		}
		if pendingSpace {
			b.WriteByte(' ')
			pendingSpace = false
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// Words returns the whitespace-separated words of the normalized text.
func Words(text string) []string {
	return strings.Fields(Normalize(text))
}

// DigitRuns returns the maximal runs of ASCII digits in text, in order of appearance.
func DigitRuns(text string) []string {
	var runs []string
	start := -1
	for i := 0; i < len(text); i++ {
		isDigit := text[i] >= '0' && text[i] <= '9'
		switch {
		case isDigit && start < 0:
			start = i
		case !isDigit && start >= 0:
			runs = append(runs, text[start:i])
			start = -1
		}
	}
	if start >= 0 {
		runs = append(runs, text[start:])
	}
	return runs
}

// foldAccents strips combining marks. A fresh transformer per call: transformers are stateful.
func foldAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
