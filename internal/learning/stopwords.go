package learning

import (
	"strings"
	"unicode"
)

// #region stopwords
// stopwords contains common English words excluded from example matching.
var stopwords = map[string]bool{
	"the": true, "a": true, "an": true, "and": true, "or": true,
	"of": true, "for": true, "in": true, "to": true, "on": true,
	"with": true, "at": true, "by": true, "from": true, "is": true,
	"are": true, "was": true, "were": true,
}

// tokenize splits procurement text into unique lowercase alphanumeric tokens,
// dropping stop words and single characters.
func tokenize(text string) []string {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	seen := make(map[string]bool)
	var tokens []string
	for _, w := range words {
		if len(w) < 2 || stopwords[w] || seen[w] {
			continue
		}
		seen[w] = true
		tokens = append(tokens, w)
	}
	return tokens
}

// sharedTokens returns the count of tokens present in both slices.
func sharedTokens(a, b []string) int {
	set := make(map[string]bool, len(a))
	for _, t := range a {
		set[t] = true
	}
	count := 0
	for _, t := range b {
		if set[t] {
			count++
		}
	}
	return count
}

// #endregion stopwords
