package cdb

import (
	"strings"
	"unicode"
)

// Normalize transforms a concept name or surface string into the canonical
// form used for both index storage and runtime lookups. The same function is
// applied on both sides, so matching is insensitive to case and to
// whitespace or punctuation variations.
//
// Rules:
//   - fold to lowercase
//   - keep letters, digits, and in-word joiners (apostrophe, hyphen, period,
//     slash, ampersand)
//   - replace every other rune with a single space, collapsing runs
//   - trim leading and trailing spaces
func Normalize(s string) string {
	var out strings.Builder
	out.Grow(len(s))

	lastWasSpace := true
	for _, ch := range s {
		c := unicode.ToLower(ch)

		if c == '’' || c == '‘' {
			c = '\''
		}
		if c == '–' || c == '—' {
			c = '-'
		}

		if unicode.IsLetter(c) || unicode.IsDigit(c) || isJoiner(c) {
			out.WriteRune(c)
			lastWasSpace = false
			continue
		}
		if !lastWasSpace {
			out.WriteRune(' ')
			lastWasSpace = true
		}
	}

	result := out.String()
	if len(result) > 0 && result[len(result)-1] == ' ' {
		result = result[:len(result)-1]
	}
	return result
}

// NormalizeTokens normalizes each token text individually. Empty results
// (tokens that were pure punctuation) are kept as empty strings so indices
// still line up with the caller's token sequence.
func NormalizeTokens(tokens []string) []string {
	out := make([]string, len(tokens))
	for i, t := range tokens {
		out[i] = Normalize(t)
	}
	return out
}

// isJoiner reports punctuation that commonly appears inside names and must
// survive normalization, e.g. "O'Brien", "Jean-Luc", "mg/dl".
func isJoiner(r rune) bool {
	switch r {
	case '\'', '-', '.', '_', '/', '&':
		return true
	default:
		return false
	}
}
