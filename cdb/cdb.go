package cdb

import (
	"fmt"
	"sort"
	"strings"

	"github.com/poiesic/lexlink/core"
)

// Record is one (name, concept) row from the lexicon source. Several records
// may share a CUI; Build merges them into a single Concept.
type Record struct {
	CUI       core.CUI
	Name      string
	Preferred bool
	Types     []string
	Frequency uint64
}

// ConceptDatabase is the read-optimized concept index. It is immutable after
// Build: any number of goroutines may read it concurrently without locking.
// A rebuild produces a fresh instance; existing readers keep the one they
// captured.
type ConceptDatabase struct {
	byName        map[string][]core.CUI
	byCUI         map[core.CUI]*core.Concept
	patterns      []*core.CombinedPattern
	maxNameTokens int
}

// Build constructs a ConceptDatabase from name records and combined patterns.
//
// All names are normalized before indexing, so runtime lookups with the same
// normalization hit the stored forms. Records sharing a CUI merge their names
// and type tags; the concept's frequency is the maximum observed across its
// records.
//
// Build fails with ErrDuplicateIdentifier when two records mark conflicting
// preferred names for the same CUI, with ErrEmptyNameSet when a concept has
// zero non-empty names after normalization, and with a core validation error
// for malformed patterns.
func Build(records []Record, patterns []*core.CombinedPattern) (*ConceptDatabase, error) {
	byCUI := make(map[core.CUI]*core.Concept)
	order := make([]core.CUI, 0, len(records))

	for _, record := range records {
		if record.CUI == "" {
			return nil, fmt.Errorf("record %q: %w", record.Name, core.ErrEmptyCUI)
		}

		name := Normalize(record.Name)
		concept, ok := byCUI[record.CUI]
		if !ok {
			concept = &core.Concept{CUI: record.CUI}
			byCUI[record.CUI] = concept
			order = append(order, record.CUI)
		}

		if name != "" && !concept.HasName(name) {
			concept.Names = append(concept.Names, name)
		}
		if record.Preferred && name != "" {
			if concept.PreferredName != "" && concept.PreferredName != name {
				return nil, fmt.Errorf("%w: %s claims preferred names %q and %q",
					ErrDuplicateIdentifier, record.CUI, concept.PreferredName, name)
			}
			concept.PreferredName = name
		}
		for _, tag := range record.Types {
			concept.Types = appendUnique(concept.Types, tag)
		}
		if record.Frequency > concept.Frequency {
			concept.Frequency = record.Frequency
		}
	}

	db := &ConceptDatabase{
		byName: make(map[string][]core.CUI),
		byCUI:  byCUI,
	}

	for _, cui := range order {
		concept := byCUI[cui]
		if len(concept.Names) == 0 {
			return nil, fmt.Errorf("%w: %s", ErrEmptyNameSet, cui)
		}
		if err := core.ValidateConcept(concept); err != nil {
			return nil, err
		}
		for _, name := range concept.Names {
			db.byName[name] = appendUniqueCUI(db.byName[name], cui)
			if n := len(strings.Fields(name)); n > db.maxNameTokens {
				db.maxNameTokens = n
			}
		}
	}

	// Candidate sets are kept sorted so every lookup returns the same order.
	for name := range db.byName {
		sort.Slice(db.byName[name], func(i, j int) bool {
			return db.byName[name][i] < db.byName[name][j]
		})
	}

	for _, pattern := range patterns {
		normalized := &core.CombinedPattern{
			CUI:        pattern.CUI,
			Components: make([]string, len(pattern.Components)),
			MaxGap:     pattern.MaxGap,
		}
		for i, component := range pattern.Components {
			normalized.Components[i] = Normalize(component)
		}
		if err := core.ValidatePattern(normalized); err != nil {
			return nil, err
		}
		if _, ok := byCUI[pattern.CUI]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownPatternConcept, pattern.CUI)
		}
		db.patterns = append(db.patterns, normalized)
	}

	return db, nil
}

// BuildFromConcepts constructs a ConceptDatabase from fully-formed concepts,
// such as those loaded back from a lexicon repository. Names are re-normalized
// through the same path as Build, and embedding vectors are carried over.
func BuildFromConcepts(concepts []*core.Concept, patterns []*core.CombinedPattern) (*ConceptDatabase, error) {
	records := make([]Record, 0, len(concepts))
	for _, concept := range concepts {
		for _, name := range concept.Names {
			records = append(records, Record{
				CUI:       concept.CUI,
				Name:      name,
				Preferred: name == concept.PreferredName,
				Types:     concept.Types,
				Frequency: concept.Frequency,
			})
		}
	}

	db, err := Build(records, patterns)
	if err != nil {
		return nil, err
	}

	for _, concept := range concepts {
		if len(concept.Vector) == 0 {
			continue
		}
		if built, ok := db.byCUI[concept.CUI]; ok {
			built.Vector = concept.Vector
		}
	}

	return db, nil
}

// LookupNames returns the concept identifiers registered for a name, in
// lexicographic order. Unknown names yield an empty result, never an error.
func (db *ConceptDatabase) LookupNames(name string) []core.CUI {
	cuis := db.byName[Normalize(name)]
	if len(cuis) == 0 {
		return nil
	}
	out := make([]core.CUI, len(cuis))
	copy(out, cuis)
	return out
}

// Concept returns the concept for a CUI, or false when unknown.
func (db *ConceptDatabase) Concept(cui core.CUI) (*core.Concept, bool) {
	concept, ok := db.byCUI[cui]
	return concept, ok
}

// PreferredName returns the canonical display name for a CUI, or the empty
// string when the CUI is unknown or carries no preferred flag.
func (db *ConceptDatabase) PreferredName(cui core.CUI) string {
	if concept, ok := db.byCUI[cui]; ok {
		return concept.PreferredName
	}
	return ""
}

// TypesOf returns the semantic type tags for a CUI.
func (db *ConceptDatabase) TypesOf(cui core.CUI) []string {
	if concept, ok := db.byCUI[cui]; ok {
		return concept.Types
	}
	return nil
}

// Frequency returns the observed-frequency counter for a CUI.
func (db *ConceptDatabase) Frequency(cui core.CUI) uint64 {
	if concept, ok := db.byCUI[cui]; ok {
		return concept.Frequency
	}
	return 0
}

// Patterns returns the normalized combined patterns.
func (db *ConceptDatabase) Patterns() []*core.CombinedPattern {
	return db.patterns
}

// Concepts returns every concept in the database. The returned slice is
// freshly allocated; the concepts themselves are shared and must be treated
// as read-only.
func (db *ConceptDatabase) Concepts() []*core.Concept {
	out := make([]*core.Concept, 0, len(db.byCUI))
	for _, concept := range db.byCUI {
		out = append(out, concept)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CUI < out[j].CUI })
	return out
}

// MaxNameTokens returns the token length of the longest indexed name.
// The dictionary matcher uses it to bound its n-gram window.
func (db *ConceptDatabase) MaxNameTokens() int {
	return db.maxNameTokens
}

// Len returns the number of concepts.
func (db *ConceptDatabase) Len() int {
	return len(db.byCUI)
}

func appendUnique(slice []string, item string) []string {
	for _, s := range slice {
		if s == item {
			return slice
		}
	}
	return append(slice, item)
}

func appendUniqueCUI(slice []core.CUI, item core.CUI) []core.CUI {
	for _, s := range slice {
		if s == item {
			return slice
		}
	}
	return append(slice, item)
}
