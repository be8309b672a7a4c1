package scraper

import (
	"strings"
	"unicode"
)

// stopwords are articles, prepositions and generic marketing filler that carry
// no identity for similarity purposes.
var stopwords = map[string]bool{}

func init() {
	for _, w := range strings.Fields(`
		de da do das dos e a o os as para por com sem em no na nos nas um uma umas uns
		kit jogo conjunto original novo nova promoção oferta relâmpago frete grátis`) {
		stopwords[w] = true
	}
}

// Normalize canonicalizes free-form text: lower-case, punctuation and symbols
// replaced by spaces, whitespace runs collapsed, ends trimmed. Idempotent.
func Normalize(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// TopKeywords normalizes the title, drops stopwords and tokens of length <= 2,
// keeps the first k surviving tokens in original order and joins them with a
// hyphen. If nothing survives, it falls back to the first 40 characters of the
// normalized title.
func TopKeywords(title string, k int) string {
	var words []string
	for _, w := range strings.Fields(Normalize(title)) {
		if stopwords[w] || len([]rune(w)) <= 2 {
			continue
		}
		words = append(words, w)
		if len(words) == k {
			break
		}
	}
	if len(words) > 0 {
		return strings.Join(words, "-")
	}

	normalized := []rune(Normalize(title))
	if len(normalized) > 40 {
		normalized = normalized[:40]
	}
	return string(normalized)
}

// SimilarityKey derives the coarse content fingerprint used for
// anti-repetition: category plus the title's leading meaningful keywords.
// Two products with equal keys are treated as duplicates regardless of URL.
func SimilarityKey(category, title string) string {
	return category + ":" + TopKeywords(title, 6)
}
