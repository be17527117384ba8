package relevance

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/careermate/internal/nlp"
)

const (
	resumeText = `Backend engineer with six years building distributed services in Go.
Designed Kubernetes deployments, gRPC APIs and PostgreSQL schemas. Led migration of
payment services to event driven architecture with Kafka.`
	jobText = `We are hiring a backend engineer to build distributed payment services in Go
on Kubernetes, with Kafka and PostgreSQL experience.`
	bakeryText = `Pastry chef wanted: croissants, sourdough bread, laminated dough and
wedding cakes. Early mornings in a busy bakery kitchen.`
)

func newTestScorer(opts ...Option) *Scorer {
	return NewScorer(nlp.NewNormalizer(nil, nil), NewHashingEmbedder(DefaultDim), nil, opts...)
}

func TestHashingEmbedder(t *testing.T) {
	e := NewHashingEmbedder(64)
	assert.Equal(t, 64, e.Dim())

	a := e.Embed([]string{"golang", "kubernetes"})
	b := e.Embed([]string{"golang", "kubernetes"})
	assert.Equal(t, a, b)

	var norm float64
	for _, v := range a {
		norm += v * v
	}
	assert.InDelta(t, 1.0, math.Sqrt(norm), 1e-9)

	for _, v := range e.Embed(nil) {
		assert.Zero(t, v)
	}
	assert.Equal(t, DefaultDim, NewHashingEmbedder(0).Dim())
}

func TestSimilarity_Bounds(t *testing.T) {
	s := newTestScorer()

	assert.InDelta(t, 1.0, s.Similarity(resumeText, resumeText), 1e-9)
	assert.Zero(t, s.Similarity("", resumeText))
	assert.Zero(t, s.Similarity(resumeText, ""))
	assert.Zero(t, s.Similarity("the and of", resumeText))
	assert.Zero(t, s.Similarity("", ""))
}

func TestSimilarity_SymmetricAndOrdered(t *testing.T) {
	s := newTestScorer()

	related := s.Similarity(resumeText, jobText)
	unrelated := s.Similarity(resumeText, bakeryText)

	assert.Equal(t, related, s.Similarity(jobText, resumeText))
	assert.Greater(t, related, unrelated)
	assert.GreaterOrEqual(t, unrelated, 0.0)
	assert.LessOrEqual(t, related, 1.0)
}

func TestMatchScore(t *testing.T) {
	s := newTestScorer()

	assert.Equal(t, 100.0, s.MatchScore(jobText, jobText))
	assert.Zero(t, s.MatchScore("", jobText))

	got := s.MatchScore(resumeText, jobText)
	assert.Greater(t, got, 0.0)
	assert.Less(t, got, 100.0)
	assert.Equal(t, got, math.Round(got*10)/10)
}

func TestExtractKeyphrases_Properties(t *testing.T) {
	s := newTestScorer()

	for _, n := range []int{1, 5, 20, 1000} {
		got := s.ExtractKeyphrases(resumeText, n)
		require.NotEmpty(t, got)
		assert.LessOrEqual(t, len(got), n)

		seen := map[string]bool{}
		for i, kp := range got {
			assert.False(t, seen[kp.Phrase], "duplicate phrase %q", kp.Phrase)
			seen[kp.Phrase] = true
			assert.LessOrEqual(t, len(strings.Fields(kp.Phrase)), 2)
			assert.False(t, nlp.IsStopWord(kp.Phrase))
			if i > 0 {
				assert.GreaterOrEqual(t, got[i-1].Score, kp.Score, "scores must not increase")
			}
		}
	}
}

func TestExtractKeyphrases_DefaultTopN(t *testing.T) {
	s := newTestScorer()

	all := s.ExtractKeyphrases(resumeText, 0)
	assert.Equal(t, len(candidates(s.Normalize(resumeText).Tokens)), len(all))
	assert.LessOrEqual(t, len(all), DefaultTopN)
}

func TestExtractKeyphrases_Empty(t *testing.T) {
	s := newTestScorer()
	assert.Empty(t, s.ExtractKeyphrases("", 10))
	assert.Empty(t, s.ExtractKeyphrases("!!! ...", 10))
}

func TestExtractKeyphrases_DiversityKeepsTopPick(t *testing.T) {
	plain := newTestScorer(WithDiversity(0)).ExtractKeyphrases(resumeText, 10)
	diverse := newTestScorer(WithDiversity(0.6)).ExtractKeyphrases(resumeText, 10)

	require.NotEmpty(t, plain)
	require.NotEmpty(t, diverse)
	assert.Equal(t, plain[0].Phrase, diverse[0].Phrase)
}

func TestCandidates(t *testing.T) {
	got := candidates([]string{"go", "developer", "go", "go"})
	assert.Equal(t, []string{"go", "go developer", "developer", "developer go"}, got)
}
