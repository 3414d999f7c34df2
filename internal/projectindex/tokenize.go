package projectindex

import (
	"iter"
	"strings"
)

// separators splits text into tokens: whitespace and common punctuation.
const separators = " \t\n\r,.;:-_/\\()[]{}"

func isSeparator(r rune) bool {
	return strings.ContainsRune(separators, r)
}

// Tokens lower-cases text and yields the non-empty runs between separators.
// The sequence may be ranged over any number of times.
func Tokens(text string) iter.Seq[string] {
	return func(yield func(string) bool) {
		lower := strings.ToLower(text)
		start := -1
		for i, r := range lower {
			if !isSeparator(r) {
				if start < 0 {
					start = i
				}
				continue
			}
			if start >= 0 {
				if !yield(lower[start:i]) {
					return
				}
				start = -1
			}
		}
		if start >= 0 {
			yield(lower[start:])
		}
	}
}

// tokenSet returns the union of the tokens of every text.
func tokenSet(texts ...string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, text := range texts {
		for tok := range Tokens(text) {
			set[tok] = struct{}{}
		}
	}
	return set
}
