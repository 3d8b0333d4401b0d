// Copyright 2025 The Poiesic Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package annotate

import (
	"fmt"
	"slices"

	"github.com/poiesic/lexlink/cdb"
	"github.com/poiesic/lexlink/core"
)

// DefaultPreferredNameWeight enables the preferred-name rule with the weight
// the concept linker historically used.
const DefaultPreferredNameWeight = 0.6

// Policy resolves a surface name shared by multiple concepts to exactly one.
// Rules are evaluated in a fixed sequence until a single candidate remains:
// preferred-name match, highest observed frequency, configured semantic-type
// priority, then lowest identifier. The final rule makes resolution total and
// deterministic over any non-empty candidate set; it never falls back to
// random selection.
type Policy struct {
	db              *cdb.ConceptDatabase
	preferredWeight float64
	typePriority    map[string]int
}

// PolicyOption configures a Policy.
type PolicyOption func(*Policy) error

// WithPreferredNameWeight sets the weight of the preferred-name rule.
// A weight of zero disables the rule entirely. Default is
// DefaultPreferredNameWeight.
func WithPreferredNameWeight(weight float64) PolicyOption {
	return func(p *Policy) error {
		if weight < 0 || weight > 1 {
			return fmt.Errorf("preferred name weight must be in [0,1], got %v", weight)
		}
		p.preferredWeight = weight
		return nil
	}
}

// WithTypePriority marks semantic types as higher-priority, most preferred
// first. Candidates carrying an unlisted type rank below all listed types.
func WithTypePriority(types ...string) PolicyOption {
	return func(p *Policy) error {
		p.typePriority = make(map[string]int, len(types))
		for i, tag := range types {
			if _, ok := p.typePriority[tag]; !ok {
				p.typePriority[tag] = i
			}
		}
		return nil
	}
}

// NewPolicy creates a disambiguation policy over db.
func NewPolicy(db *cdb.ConceptDatabase, opts ...PolicyOption) (*Policy, error) {
	if db == nil {
		return nil, ErrDatabaseRequired
	}

	p := &Policy{
		db:              db,
		preferredWeight: DefaultPreferredNameWeight,
	}
	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// Resolve picks one concept for the matched surface text. The candidate set
// must be non-empty; identical inputs always yield the same result.
func (p *Policy) Resolve(candidates []core.CUI, surface string) (core.CUI, error) {
	if len(candidates) == 0 {
		return "", ErrNoCandidates
	}
	if len(candidates) == 1 {
		return candidates[0], nil
	}

	remaining := slices.Clone(candidates)

	if p.preferredWeight > 0 {
		remaining = p.keepPreferredNameMatches(remaining, surface)
		if len(remaining) == 1 {
			return remaining[0], nil
		}
	}

	remaining = p.keepHighestFrequency(remaining)
	if len(remaining) == 1 {
		return remaining[0], nil
	}

	if len(p.typePriority) > 0 {
		remaining = p.keepHighestTypePriority(remaining)
		if len(remaining) == 1 {
			return remaining[0], nil
		}
	}

	return slices.Min(remaining), nil
}

func (p *Policy) keepPreferredNameMatches(candidates []core.CUI, surface string) []core.CUI {
	normalized := cdb.Normalize(surface)
	kept := candidates[:0:0]
	for _, cui := range candidates {
		if cdb.Normalize(p.db.PreferredName(cui)) == normalized {
			kept = append(kept, cui)
		}
	}
	if len(kept) == 0 {
		return candidates
	}
	return kept
}

func (p *Policy) keepHighestFrequency(candidates []core.CUI) []core.CUI {
	var best uint64
	for _, cui := range candidates {
		if freq := p.db.Frequency(cui); freq > best {
			best = freq
		}
	}
	kept := candidates[:0:0]
	for _, cui := range candidates {
		if p.db.Frequency(cui) == best {
			kept = append(kept, cui)
		}
	}
	return kept
}

func (p *Policy) keepHighestTypePriority(candidates []core.CUI) []core.CUI {
	best := len(p.typePriority) // rank for unlisted types
	rank := func(cui core.CUI) int {
		r := len(p.typePriority)
		for _, tag := range p.db.TypesOf(cui) {
			if pr, ok := p.typePriority[tag]; ok && pr < r {
				r = pr
			}
		}
		return r
	}

	for _, cui := range candidates {
		if r := rank(cui); r < best {
			best = r
		}
	}
	kept := candidates[:0:0]
	for _, cui := range candidates {
		if rank(cui) == best {
			kept = append(kept, cui)
		}
	}
	return kept
}
