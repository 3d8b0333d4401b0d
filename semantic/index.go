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

package semantic

import (
	"math"
	"sort"

	"github.com/poiesic/lexlink/core"
)

// Match is one nearest-neighbor hit against the concept index.
type Match struct {
	CUI        core.CUI
	Similarity float32
}

type entry struct {
	cui    core.CUI
	vector []float32
}

// Index is an exact nearest-neighbor index over concept vectors.
// Vectors are unit-normalized at build time so similarity is a dot product.
// An Index is immutable after construction and safe for concurrent reads.
type Index struct {
	entries []entry
	dims    int
}

// NewIndex builds an index from the given concepts. Concepts without a vector
// are skipped; concepts whose vector length disagrees with the first indexed
// vector are rejected with ErrDimensionMismatch.
func NewIndex(concepts []*core.Concept) (*Index, error) {
	idx := &Index{}
	for _, concept := range concepts {
		if concept == nil || len(concept.Vector) == 0 {
			continue
		}
		if idx.dims == 0 {
			idx.dims = len(concept.Vector)
		} else if len(concept.Vector) != idx.dims {
			return nil, ErrDimensionMismatch
		}
		idx.entries = append(idx.entries, entry{
			cui:    concept.CUI,
			vector: normalize(concept.Vector),
		})
	}

	// Stable entry order keeps Nearest deterministic across builds.
	sort.Slice(idx.entries, func(i, j int) bool {
		return idx.entries[i].cui < idx.entries[j].cui
	})

	return idx, nil
}

// Len returns the number of indexed concepts.
func (idx *Index) Len() int { return len(idx.entries) }

// Dims returns the vector dimension, or 0 for an empty index.
func (idx *Index) Dims() int { return idx.dims }

// Nearest returns up to k concepts ranked by cosine similarity to vector,
// excluding anything below minSimilarity. Ties break on lowest CUI.
func (idx *Index) Nearest(vector []float32, k int, minSimilarity float32) []Match {
	if k <= 0 || len(idx.entries) == 0 || len(vector) != idx.dims {
		return nil
	}

	query := normalize(vector)
	matches := make([]Match, 0, k)
	for _, e := range idx.entries {
		sim := dot(query, e.vector)
		if sim < minSimilarity {
			continue
		}
		matches = append(matches, Match{CUI: e.cui, Similarity: sim})
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Similarity != matches[j].Similarity {
			return matches[i].Similarity > matches[j].Similarity
		}
		return matches[i].CUI < matches[j].CUI
	})

	if len(matches) > k {
		matches = matches[:k]
	}
	return matches
}

func dot(a, b []float32) float32 {
	var sum float32
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

func normalize(v []float32) []float32 {
	var magnitude float32
	for _, val := range v {
		magnitude += val * val
	}
	magnitude = float32(math.Sqrt(float64(magnitude)))

	result := make([]float32, len(v))
	if magnitude == 0 {
		return result
	}
	for i, val := range v {
		result[i] = val / magnitude
	}
	return result
}
