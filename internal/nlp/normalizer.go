// Package nlp lowercases, tokenizes, lemmatizes and filters text, and finds
// person names for identity detection.
package nlp

import (
	"fmt"
	"regexp"
	"strings"
	"sync"
	"unicode"

	"github.com/aaaton/golem/v4"
	"github.com/aaaton/golem/v4/dicts/en"
	"github.com/jdkato/prose/v2"
)

// NormalizedText is a sequence of lemma tokens with stop words and
// punctuation removed.
type NormalizedText struct {
	Tokens []string
}

func (n NormalizedText) String() string { return strings.Join(n.Tokens, " ") }
func (n NormalizedText) Empty() bool    { return len(n.Tokens) == 0 }

// Lemmatizer maps a lowercase word to its dictionary form.
type Lemmatizer interface {
	Lemma(word string) string
}

// Normalizer holds the language resources. It is read-only after Load and safe
// for concurrent use.
type Normalizer struct {
	lemmatizer Lemmatizer
	tagger     EntityTagger
}

// maxLemmaPasses bounds the fixed-point iteration in lemma.
const maxLemmaPasses = 4

var reWordPieces = regexp.MustCompile(`[^\p{L}\p{N}+#]+`)

// Load builds a Normalizer backed by the bundled English dictionary.
func Load() (*Normalizer, error) {
	lem, err := golem.New(en.New())
	if err != nil {
		return nil, fmt.Errorf("load lemmatizer: %w", err)
	}
	return &Normalizer{lemmatizer: lem, tagger: proseTagger{}}, nil
}

var defaultNormalizer = sync.OnceValues(Load)

// Default returns the process-wide Normalizer, loading it on first use.
func Default() (*Normalizer, error) {
	return defaultNormalizer()
}

// NewNormalizer wires custom resources; nil arguments fall back to a
// pass-through lemmatizer and the prose entity tagger.
func NewNormalizer(lem Lemmatizer, tagger EntityTagger) *Normalizer {
	if lem == nil {
		lem = identityLemmatizer{}
	}
	if tagger == nil {
		tagger = proseTagger{}
	}
	return &Normalizer{lemmatizer: lem, tagger: tagger}
}

// Normalize lowercases, tokenizes, lemmatizes and drops stop words and
// punctuation. Running it on its own output changes nothing.
func (n *Normalizer) Normalize(text string) NormalizedText {
	words := tokenize(strings.ToLower(text))
	out := make([]string, 0, len(words))
	for _, w := range words {
		if IsStopWord(w) {
			continue
		}
		l := n.lemma(w)
		if l == "" || IsStopWord(l) || !keepToken(l) {
			continue
		}
		out = append(out, l)
	}
	return NormalizedText{Tokens: out}
}

// lemma iterates the lemmatizer until the form stops changing.
func (n *Normalizer) lemma(w string) string {
	cur := w
	for i := 0; i < maxLemmaPasses; i++ {
		next := strings.ToLower(n.lemmatizer.Lemma(cur))
		if next == "" || next == cur || strings.ContainsFunc(next, unicode.IsSpace) {
			break
		}
		cur = next
	}
	return cur
}

// tokenize splits text with the prose tokenizer, then breaks tokens on
// punctuation so the pieces are stable under re-tokenization.
func tokenize(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	doc, err := prose.NewDocument(text,
		prose.WithTagging(false),
		prose.WithSegmentation(false),
		prose.WithExtraction(false),
	)
	var raw []string
	if err == nil {
		for _, tok := range doc.Tokens() {
			raw = append(raw, tok.Text)
		}
	} else {
		raw = strings.Fields(text)
	}

	var out []string
	for _, tok := range raw {
		for _, piece := range reWordPieces.Split(tok, -1) {
			if keepToken(piece) {
				out = append(out, piece)
			}
		}
	}
	return out
}

// keepToken drops symbol-only tokens and stray single letters.
func keepToken(t string) bool {
	letters, digits := 0, 0
	for _, r := range t {
		switch {
		case unicode.IsLetter(r):
			letters++
		case unicode.IsDigit(r):
			digits++
		}
	}
	if letters == 0 && digits == 0 {
		return false
	}
	if digits == 0 && letters == 1 && len([]rune(t)) == 1 {
		return false
	}
	return true
}

type identityLemmatizer struct{}

func (identityLemmatizer) Lemma(w string) string { return w }
