// Package wordcount derives word counts from raw document text.
//
// The tokenization is deliberately plain: trim, then split on runs of
// whitespace. The unlock threshold is defined against this counting, so it
// must not be upgraded to smarter tokenization.
package wordcount

import (
	"strings"
	"unicode"
)

// Count returns the number of whitespace-separated words in text.
// Empty or whitespace-only text yields 0.
func Count(text string) int {
	words := strings.FieldsFunc(strings.TrimSpace(text), func(r rune) bool {
		return unicode.IsSpace(r)
	})
	return len(words)
}
