// Package relevance ranks keyphrases and scores semantic closeness between
// documents over a shared embedding model.
package relevance

import (
	"log/slog"
	"math"

	"github.com/joseph-ayodele/careermate/internal/nlp"
)

// DefaultTopN is the keyphrase count used when callers pass topN <= 0.
const DefaultTopN = 100

// DefaultDiversity weighs redundancy against relevance in keyphrase ranking.
const DefaultDiversity = 0.3

// Keyphrase is a ranked phrase of one or two lemmas.
type Keyphrase struct {
	Phrase string  `json:"phrase"`
	Score  float64 `json:"score"`
}

type Scorer struct {
	norm      *nlp.Normalizer
	emb       Embedder
	diversity float64
	logger    *slog.Logger
}

type Option func(*Scorer)

// WithDiversity sets the redundancy penalty in [0,1]; 0 ranks by relevance only.
func WithDiversity(d float64) Option {
	return func(s *Scorer) {
		if d >= 0 && d <= 1 {
			s.diversity = d
		}
	}
}

func NewScorer(norm *nlp.Normalizer, emb Embedder, logger *slog.Logger, opts ...Option) *Scorer {
	if logger == nil {
		logger = slog.Default()
	}
	if emb == nil {
		emb = NewHashingEmbedder(DefaultDim)
	}
	s := &Scorer{norm: norm, emb: emb, diversity: DefaultDiversity, logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Normalize exposes the scorer's normalizer for callers composing results.
func (s *Scorer) Normalize(text string) nlp.NormalizedText {
	return s.norm.Normalize(text)
}

// Similarity is the cosine between the embeddings of a and b, clamped to
// [0,1]. Empty or stop-word-only input scores 0.
func (s *Scorer) Similarity(a, b string) float64 {
	ta := s.norm.Normalize(a)
	tb := s.norm.Normalize(b)
	if ta.Empty() || tb.Empty() {
		return 0
	}
	return clamp01(cosine(s.emb.Embed(ta.Tokens), s.emb.Embed(tb.Tokens)))
}

// MatchScore reports Similarity on a 0-100 scale with one decimal.
func (s *Scorer) MatchScore(resume, jobDescription string) float64 {
	sim := s.Similarity(resume, jobDescription)
	score := math.Round(sim*1000) / 10
	s.logger.Debug("relevance.match_score", "similarity", sim, "score", score)
	return score
}

func clamp01(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
