package match

import (
	"strings"

	"github.com/poiesic/lexlink/cdb"
	"github.com/poiesic/lexlink/core"
)

// CombinedPatternMatcher finds gap-tolerant multi-component patterns.
//
// Patterns are grouped by the first token of their first component, so one
// left-to-right scan dispatches only the patterns anchored at the current
// token instead of running a full scan per pattern. Per-pattern work is
// bounded by token count times max gap.
type CombinedPatternMatcher struct {
	byFirst    map[string][]*compiledPattern
	patterns   []*compiledPattern
	confidence ConfidenceFunc
}

// compiledPattern holds a pattern with its components pre-split into token
// sequences. A component may itself be a multi-word phrase.
type compiledPattern struct {
	cui        core.CUI
	maxGap     int
	components [][]string
}

// CombinedOption configures a CombinedPatternMatcher.
type CombinedOption func(*CombinedPatternMatcher) error

// WithConfidence replaces the gap-to-confidence scoring policy.
// Default is GapScaledConfidence.
func WithConfidence(fn ConfidenceFunc) CombinedOption {
	return func(m *CombinedPatternMatcher) error {
		if fn == nil {
			fn = GapScaledConfidence
		}
		m.confidence = fn
		return nil
	}
}

// NewCombinedPatternMatcher compiles the database's combined patterns into a
// first-component dispatch index.
func NewCombinedPatternMatcher(db *cdb.ConceptDatabase, opts ...CombinedOption) (*CombinedPatternMatcher, error) {
	if db == nil {
		return nil, ErrDatabaseRequired
	}

	m := &CombinedPatternMatcher{
		byFirst:    make(map[string][]*compiledPattern),
		confidence: GapScaledConfidence,
	}

	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, err
		}
	}

	for _, pattern := range db.Patterns() {
		compiled := &compiledPattern{
			cui:        pattern.CUI,
			maxGap:     pattern.MaxGap,
			components: make([][]string, len(pattern.Components)),
		}
		for i, component := range pattern.Components {
			compiled.components[i] = strings.Fields(component)
		}
		anchor := compiled.components[0][0]
		m.byFirst[anchor] = append(m.byFirst[anchor], compiled)
		m.patterns = append(m.patterns, compiled)
	}

	return m, nil
}

// PatternCount returns the number of compiled patterns.
func (m *CombinedPatternMatcher) PatternCount() int {
	return len(m.patterns)
}

// Match scans the document once, dispatching anchored patterns at each token.
// Every component of a pattern must be located in order, each within the
// pattern's max gap after the previous component's end; exceeding the gap at
// any single boundary aborts that attempt. After a pattern matches, its next
// attempt starts past the matched region.
//
// Match keeps all per-call state on the stack and is safe for concurrent use.
func (m *CombinedPatternMatcher) Match(doc *core.Document) []core.Span {
	if len(m.byFirst) == 0 {
		return nil
	}

	tokens := doc.Tokens
	norm := normalizeTokenTexts(tokens)
	resume := make(map[*compiledPattern]int)

	var spans []core.Span
	for i := range tokens {
		if norm[i] == "" {
			continue
		}
		for _, pattern := range m.byFirst[norm[i]] {
			if i < resume[pattern] {
				continue
			}
			end, totalGap, ok := pattern.matchAt(norm, i)
			if !ok {
				continue
			}
			spans = append(spans, core.Span{
				Start:      tokens[i].Start,
				End:        tokens[end-1].End,
				TokenStart: i,
				TokenEnd:   end,
				Source:     core.SourceCombined,
				Candidates: []core.CUI{pattern.cui},
				Confidence: m.confidence(totalGap, pattern.maxGap, len(pattern.components)),
			})
			resume[pattern] = end
		}
	}

	return spans
}

// matchAt attempts the pattern with its first component anchored at start.
// It returns the exclusive end token index and the total realized gap.
func (p *compiledPattern) matchAt(norm []string, start int) (end, totalGap int, ok bool) {
	if !componentAt(norm, start, p.components[0]) {
		return 0, 0, false
	}
	pos := start + len(p.components[0])

	for _, component := range p.components[1:] {
		found := -1
		for s := pos; s <= pos+p.maxGap && s < len(norm); s++ {
			if componentAt(norm, s, component) {
				found = s
				break
			}
		}
		if found < 0 {
			return 0, 0, false
		}
		totalGap += found - pos
		pos = found + len(component)
	}

	return pos, totalGap, true
}

// componentAt reports whether the component's token sequence occurs at start.
func componentAt(norm []string, start int, component []string) bool {
	if start+len(component) > len(norm) {
		return false
	}
	for j, word := range component {
		if norm[start+j] != word {
			return false
		}
	}
	return true
}
