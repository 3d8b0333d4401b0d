package token

import (
	"unicode"
	"unicode/utf8"

	"github.com/poiesic/lexlink/core"
)

// Tokenize splits text into tokens while preserving byte offsets into the
// original string. It is the reference preprocessing collaborator for the
// matching engine: the engine itself consumes any token sequence with valid
// offsets, whatever produced it.
//
// A token is a maximal run of letters, digits, and in-word joiners
// (apostrophe, hyphen, period, slash, ampersand); everything else separates.
func Tokenize(text string) []core.Token {
	out := make([]core.Token, 0, 64)

	i := 0
	for i < len(text) {
		for i < len(text) {
			r, w := utf8.DecodeRuneInString(text[i:])
			if !isSeparator(r) {
				break
			}
			i += w
		}
		start := i

		for i < len(text) {
			r, w := utf8.DecodeRuneInString(text[i:])
			if isSeparator(r) {
				break
			}
			i += w
		}

		if start < i {
			out = append(out, core.Token{Text: text[start:i], Start: start, End: i})
		}
	}

	return out
}

// Document tokenizes text into a core.Document with the given name.
func Document(name, text string) *core.Document {
	return &core.Document{Name: name, Text: text, Tokens: Tokenize(text)}
}

func isSeparator(r rune) bool {
	if unicode.IsLetter(r) || unicode.IsDigit(r) {
		return false
	}
	switch r {
	case '\'', '’', '‘', '-', '–', '—', '.', '_', '/', '&':
		return false
	}
	return true
}
