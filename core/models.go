package core

import (
	"encoding/binary"
	"strings"

	"github.com/go-crypt/x/blake2b"
)

// CUI is a concept unique identifier. It is a flat, opaque key: the source
// ontology organizes concepts into clusters, but that structure is carried
// as type tags on each Concept, never as a hierarchy of identifiers.
type CUI string

// ID is a content-derived identifier for records that have no externally
// assigned key, such as combined patterns.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b
// hashing. Identical content always produces the same ID.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Source identifies which matcher produced a span or annotation.
type Source int

const (
	// SourceDictionary marks exact dictionary-name matches.
	SourceDictionary Source = iota + 1
	// SourceCombined marks gap-tolerant combined-pattern matches.
	SourceCombined
	// SourceSemantic marks vector-similarity fallback matches.
	SourceSemantic
)

// Priority returns the evidence priority of a source. Dictionary matches are
// the highest-precision evidence, combined patterns encode curated multi-word
// knowledge, semantic matches only fill gaps.
func (s Source) Priority() int {
	switch s {
	case SourceDictionary:
		return 3
	case SourceCombined:
		return 2
	case SourceSemantic:
		return 1
	default:
		return 0
	}
}

func (s Source) String() string {
	switch s {
	case SourceDictionary:
		return "dictionary"
	case SourceCombined:
		return "combined"
	case SourceSemantic:
		return "semantic"
	default:
		return "unknown"
	}
}

// Token is one token of a pre-tokenized document, with character offsets
// into the original text. Tokenization happens outside this module.
type Token struct {
	Text  string
	Start int // byte offset in the original text
	End   int // byte offset, exclusive
}

// Document is the unit of matching: the original text plus its token
// sequence. Name is an optional caller-supplied label used in logs.
type Document struct {
	Name   string
	Text   string
	Tokens []Token
}

// Concept is one addressable domain concept with its synonym set.
type Concept struct {
	CUI           CUI
	Names         []string
	PreferredName string
	Types         []string
	Frequency     uint64
	Vector        []float32 // embedding of the preferred name, may be empty
}

// HasName reports whether name is one of the concept's names.
// The caller is responsible for normalizing name first.
func (c *Concept) HasName(name string) bool {
	for _, n := range c.Names {
		if n == name {
			return true
		}
	}
	return false
}

// CombinedPattern is a multi-component lexical pattern bound to one concept.
// Components must be found in order; between two consecutive components at
// most MaxGap unrelated tokens may appear.
type CombinedPattern struct {
	CUI        CUI
	Components []string
	MaxGap     int
}

// ID derives the pattern's content-based identity from its owning concept
// and component list.
func (p *CombinedPattern) ID() ID {
	return IDFromContent(string(p.CUI) + "|" + strings.Join(p.Components, "|"))
}

// Span is a candidate text range produced by one matcher, carrying one or
// more concept hypotheses. Offsets are byte offsets into Document.Text;
// TokenStart/TokenEnd are indices into Document.Tokens (end exclusive).
type Span struct {
	Start      int
	End        int
	TokenStart int
	TokenEnd   int
	Source     Source
	Candidates []CUI
	Confidence float32
}

// Len returns the character length of the span.
func (s *Span) Len() int {
	return s.End - s.Start
}

// Overlaps reports whether the character range of the span intersects
// [start, end).
func (s *Span) Overlaps(start, end int) bool {
	return s.Start < end && start < s.End
}

// Ambiguous reports whether the span carries more than one candidate concept.
func (s *Span) Ambiguous() bool {
	return len(s.Candidates) > 1
}

// Annotation is a finalized, single-concept mention. Annotations produced
// for one document never overlap.
type Annotation struct {
	Start      int
	End        int
	CUI        CUI
	Confidence float32
	Source     Source
}

// Overlaps reports whether the annotation's character range intersects
// [start, end).
func (a *Annotation) Overlaps(start, end int) bool {
	return a.Start < end && start < a.End
}
