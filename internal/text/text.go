// Package text provides whitespace normalization and tokenization for
// practice targets and dictionary keys.
package text

import "strings"

// Normalize trims s and collapses every internal whitespace run to a single
// space. The result is the canonical form used for target comparison and for
// dictionary keys. Empty input yields the empty string.
func Normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Tokenize normalizes s and splits it into whitespace-delimited tokens,
// punctuation staying attached to its word. Whitespace-only input yields no
// tokens.
func Tokenize(s string) []string {
	norm := Normalize(s)
	if norm == "" {
		return nil
	}
	return strings.Split(norm, " ")
}
