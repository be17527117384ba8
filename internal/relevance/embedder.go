package relevance

import (
	"hash/fnv"
	"math"
)

// DefaultDim is the embedding width used when none is configured.
const DefaultDim = 512

// Embedder maps a token sequence to a fixed-width vector. Implementations
// must be deterministic and safe for concurrent use.
type Embedder interface {
	Embed(tokens []string) []float64
	Dim() int
}

// HashingEmbedder projects lemma and character-trigram features into Dim
// signed buckets and L2-normalizes the result. Sharing trigrams lets
// inflected or misspelled forms land near each other.
type HashingEmbedder struct {
	dim int
}

const (
	wordWeight    = 1.0
	trigramWeight = 0.35
)

func NewHashingEmbedder(dim int) *HashingEmbedder {
	if dim <= 0 {
		dim = DefaultDim
	}
	return &HashingEmbedder{dim: dim}
}

func (h *HashingEmbedder) Dim() int { return h.dim }

// Embed returns the zero vector for an empty token list.
func (h *HashingEmbedder) Embed(tokens []string) []float64 {
	vec := make([]float64, h.dim)
	for _, tok := range tokens {
		if tok == "" {
			continue
		}
		h.add(vec, "w:"+tok, wordWeight)
		padded := []rune("^" + tok + "$")
		for i := 0; i+3 <= len(padded); i++ {
			h.add(vec, "c:"+string(padded[i:i+3]), trigramWeight)
		}
	}
	normalizeL2(vec)
	return vec
}

func (h *HashingEmbedder) add(vec []float64, feature string, w float64) {
	f := fnv.New64a()
	_, _ = f.Write([]byte(feature))
	sum := f.Sum64()
	idx := int(sum % uint64(h.dim))
	if sum>>63 == 1 {
		w = -w
	}
	vec[idx] += w
}

func normalizeL2(vec []float64) {
	var norm float64
	for _, v := range vec {
		norm += v * v
	}
	if norm == 0 {
		return
	}
	norm = math.Sqrt(norm)
	for i := range vec {
		vec[i] /= norm
	}
}

// cosine assumes unit-length or zero vectors.
func cosine(a, b []float64) float64 {
	if len(a) != len(b) {
		return 0
	}
	var dot float64
	for i := range a {
		dot += a[i] * b[i]
	}
	return dot
}
