package match

import (
	"github.com/poiesic/lexlink/cdb"
	"github.com/poiesic/lexlink/core"
)

// DictionaryMatcher finds exact concept-name mentions in a token sequence.
//
// The scan is greedy, longest-match-first, left-to-right: at each start
// position the longest n-gram (bounded by the longest indexed name) is tried
// first, shrinking until a name matches or the position is exhausted. After a
// match the scan resumes past it, so the matcher's own output never overlaps.
// Overlaps against other matchers are resolved later by the span merger.
type DictionaryMatcher struct {
	db        *cdb.ConceptDatabase
	maxTokens int
}

// DictionaryOption configures a DictionaryMatcher.
type DictionaryOption func(*DictionaryMatcher) error

// WithMaxNameTokens overrides the n-gram window bound.
// Default is the token length of the longest name in the database.
func WithMaxNameTokens(n int) DictionaryOption {
	return func(m *DictionaryMatcher) error {
		if n < 1 {
			n = 1
		}
		m.maxTokens = n
		return nil
	}
}

// NewDictionaryMatcher creates a dictionary matcher over an immutable
// concept database.
func NewDictionaryMatcher(db *cdb.ConceptDatabase, opts ...DictionaryOption) (*DictionaryMatcher, error) {
	if db == nil {
		return nil, ErrDatabaseRequired
	}

	m := &DictionaryMatcher{
		db:        db,
		maxTokens: db.MaxNameTokens(),
	}
	if m.maxTokens < 1 {
		m.maxTokens = 1
	}

	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// Match scans the document and returns one span per matched name. Ambiguous
// names carry all candidate identifiers; resolution happens at merge time.
//
// The window bound counts content tokens only. Punctuation tokens normalize
// away, so they neither consume the window nor block a match; a window still
// begins and ends on a content token.
//
// The scan is read-only; Match is safe for concurrent use.
func (m *DictionaryMatcher) Match(doc *core.Document) []core.Span {
	tokens := doc.Tokens
	norm := normalizeTokenTexts(tokens)

	content := make([]int, 0, len(tokens))
	for i, text := range norm {
		if text != "" {
			content = append(content, i)
		}
	}

	var spans []core.Span
	ci := 0
	for ci < len(content) {
		limit := m.maxTokens
		if remaining := len(content) - ci; limit > remaining {
			limit = remaining
		}

		matched := 0
		for n := limit; n >= 1; n-- {
			start := content[ci]
			end := content[ci+n-1]
			surface := joinNonEmpty(norm[start : end+1])
			cuis := m.db.LookupNames(surface)
			if len(cuis) == 0 {
				continue
			}
			spans = append(spans, core.Span{
				Start:      tokens[start].Start,
				End:        tokens[end].End,
				TokenStart: start,
				TokenEnd:   end + 1,
				Source:     core.SourceDictionary,
				Candidates: cuis,
				Confidence: 1.0,
			})
			matched = n
			break
		}

		if matched > 0 {
			ci += matched
		} else {
			ci++
		}
	}

	return spans
}

func normalizeTokenTexts(tokens []core.Token) []string {
	norm := make([]string, len(tokens))
	for i, t := range tokens {
		norm[i] = cdb.Normalize(t.Text)
	}
	return norm
}

func joinNonEmpty(parts []string) string {
	out := ""
	for _, p := range parts {
		if p == "" {
			continue
		}
		if out == "" {
			out = p
		} else {
			out += " " + p
		}
	}
	return out
}
