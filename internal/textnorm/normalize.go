// Package textnorm is the single text transform applied before embedding,
// identically for indexed documents and queries.
package textnorm

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

var markupRegex = regexp.MustCompile(`<[^>]*>`)

// Normalize strips markup, folds case and keeps only letters, numbers and single spaces.
// It is pure, total and idempotent.
func Normalize(s string) string {
	if s == "" {
		return ""
	}

	s = norm.NFC.String(s)
	// Caser is stateful, one per call.
	s = cases.Lower(language.Und).String(s)
	s = markupRegex.ReplaceAllString(s, " ")

	var b strings.Builder
	b.Grow(len(s))
	pendingSpace := false
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			if pendingSpace && b.Len() > 0 {
				b.WriteByte(' ')
			}
			pendingSpace = false
			b.WriteRune(r)
			continue
		}
		// Newlines, whitespace and every other symbol become a separator.
		pendingSpace = true
	}
	return b.String()
}
