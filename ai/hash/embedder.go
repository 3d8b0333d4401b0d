package hash

import (
	"context"
	"math"
	"strings"

	"github.com/poiesic/lexlink/ai"
)

// DefaultDimension is the vector size produced by the embedder.
const DefaultDimension = 256

// Embedder is a dependency-free local embedder built on hashed lexical
// features: word unigrams, word bigrams, and character trigrams projected
// into a fixed-size vector with signed hashing. It captures surface-level
// similarity only, but it is fast, deterministic, and needs no network,
// which makes it a usable stand-in when a model-backed embedder is
// unavailable or degraded.
type Embedder struct {
	dimension int
}

var _ ai.Embedder = (*Embedder)(nil)

// New creates a hash embedder with the default dimension.
func New() *Embedder {
	return &Embedder{dimension: DefaultDimension}
}

// NewWithDimension creates a hash embedder producing vectors of size dim.
func NewWithDimension(dim int) *Embedder {
	if dim <= 0 {
		dim = DefaultDimension
	}
	return &Embedder{dimension: dim}
}

// Dimension returns the vector size.
func (e *Embedder) Dimension() int { return e.dimension }

// EmbedText generates a unit-length feature vector for text.
func (e *Embedder) EmbedText(_ context.Context, text string) ([]float32, error) {
	return e.embed(text), nil
}

// EmbedTexts generates feature vectors for multiple texts.
func (e *Embedder) EmbedTexts(_ context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vectors[i] = e.embed(text)
	}
	return vectors, nil
}

func (e *Embedder) embed(text string) []float32 {
	vec := make([]float32, e.dimension)
	tokens := strings.Fields(strings.ToLower(text))

	e.addWordFeatures(vec, tokens, 0.55)
	e.addBigramFeatures(vec, tokens, 0.25)
	e.addCharNgramFeatures(vec, strings.ToLower(text), 0.20)

	return unit(vec)
}

func (e *Embedder) addWordFeatures(vec []float32, tokens []string, weight float64) {
	if len(tokens) == 0 {
		return
	}
	w := float32(weight / math.Sqrt(float64(len(tokens))))
	for _, tok := range tokens {
		e.projectWithSign(vec, fnvHash64("w:"+tok), w, 6)
	}
}

func (e *Embedder) addBigramFeatures(vec []float32, tokens []string, weight float64) {
	if len(tokens) < 2 {
		return
	}
	w := float32(weight / math.Sqrt(float64(len(tokens)-1)))
	for i := 0; i < len(tokens)-1; i++ {
		e.projectWithSign(vec, fnvHash64("wb:"+tokens[i]+" "+tokens[i+1]), w, 4)
	}
}

func (e *Embedder) addCharNgramFeatures(vec []float32, text string, weight float64) {
	const n = 3
	if len(text) < n {
		return
	}
	count := len(text) - n + 1
	w := float32(weight / math.Sqrt(float64(count)))
	for i := 0; i <= len(text)-n; i++ {
		e.projectWithSign(vec, fnvHash64(text[i:i+n]), w, 4)
	}
}

// projectWithSign spreads a hash value over several vector positions with
// alternating signs, which keeps unrelated features roughly orthogonal.
func (e *Embedder) projectWithSign(vec []float32, hash uint64, weight float32, projections int) {
	state := hash
	for j := 0; j < projections; j++ {
		state = state*6364136223846793005 + 1442695040888963407
		idx := int(state % uint64(e.dimension))
		sign := float32(1)
		if (hash>>j)&1 == 0 {
			sign = -1
		}
		vec[idx] += weight * sign
	}
}

func unit(vec []float32) []float32 {
	var sumSquares float64
	for _, v := range vec {
		sumSquares += float64(v) * float64(v)
	}
	if sumSquares == 0 {
		return vec
	}
	inv := float32(1.0 / math.Sqrt(sumSquares))
	for i := range vec {
		vec[i] *= inv
	}
	return vec
}

func fnvHash64(s string) uint64 {
	const (
		offset64 = 14695981039346656037
		prime64  = 1099511628211
	)
	var h uint64 = offset64
	for i := 0; i < len(s); i++ {
		h ^= uint64(s[i])
		h *= prime64
	}
	return h
}
