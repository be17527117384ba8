package nlp

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadNormalizer(t *testing.T) *Normalizer {
	t.Helper()
	n, err := Default()
	require.NoError(t, err)
	require.NotNil(t, n)
	return n
}

func TestNormalize_FiltersAndLemmatizes(t *testing.T) {
	n := loadNormalizer(t)

	got := n.Normalize("The Engineers were shipping several PROJECTS, and they were on time!")

	assert.Contains(t, got.Tokens, "engineer")
	assert.Contains(t, got.Tokens, "project")
	for _, tok := range got.Tokens {
		assert.False(t, IsStopWord(tok), "stop word %q survived", tok)
		assert.NotContains(t, []string{",", "!", "."}, tok)
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	n := loadNormalizer(t)
	inputs := []string{
		"Senior backend engineers designing distributed systems in Go and Python.",
		"Led a team of 5 developers; reduced latency by 40% across services.",
		"I think the answer was decent but lacked specific examples.",
		"",
	}
	for _, in := range inputs {
		once := n.Normalize(in)
		twice := n.Normalize(once.String())
		assert.Equal(t, once.Tokens, twice.Tokens, "input %q", in)
	}
}

func TestNormalize_Degenerate(t *testing.T) {
	n := loadNormalizer(t)
	assert.True(t, n.Normalize("").Empty())
	assert.True(t, n.Normalize("  ... !!! ---  ").Empty())
	assert.True(t, n.Normalize("the and of to").Empty())
}

func TestNormalize_PassThroughLemmatizer(t *testing.T) {
	n := NewNormalizer(nil, nil)

	got := n.Normalize("Hello, World! The quick-brown fox")

	assert.Equal(t, []string{"hello", "world", "quick", "brown", "fox"}, got.Tokens)
	assert.Equal(t, "hello world quick brown fox", got.String())
}

type fixedLemmas map[string]string

func (f fixedLemmas) Lemma(w string) string {
	if l, ok := f[w]; ok {
		return l
	}
	return w
}

func TestNormalize_LemmaFixedPoint(t *testing.T) {
	n := NewNormalizer(fixedLemmas{"leaders": "leader", "leader": "lead", "is": "be"}, nil)

	got := n.Normalize("leaders is")

	// "is" is filtered as a stop word before lemmatization
	assert.Equal(t, []string{"lead"}, got.Tokens)
	assert.Equal(t, got.Tokens, n.Normalize(got.String()).Tokens)
}

type stubTagger []Entity

func (s stubTagger) Entities(string) []Entity { return s }

func TestExtractIdentity_FirstPersonWins(t *testing.T) {
	n := NewNormalizer(nil, stubTagger{
		{Text: "Acme Corp", Label: "ORG"},
		{Text: "Jane  Doe", Label: "PERSON"},
		{Text: "John Roe", Label: "PERSON"},
	})

	name, ok := n.ExtractIdentity("Jane Doe worked at Acme Corp with John Roe.")
	require.True(t, ok)
	assert.Equal(t, "Jane Doe", name)
}

func TestExtractIdentity_Absent(t *testing.T) {
	n := NewNormalizer(nil, stubTagger{{Text: "Lagos", Label: "GPE"}})

	_, ok := n.ExtractIdentity("Based in Lagos.")
	assert.False(t, ok)

	_, ok = n.ExtractIdentity("   ")
	assert.False(t, ok)
}

func TestDefault_SharedInstance(t *testing.T) {
	var wg sync.WaitGroup
	got := make([]*Normalizer, 4)
	for i := range got {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			n, err := Default()
			if err == nil {
				got[i] = n
			}
		}(i)
	}
	wg.Wait()
	for _, n := range got {
		assert.Same(t, got[0], n)
	}
}
