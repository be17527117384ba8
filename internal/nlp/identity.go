package nlp

import (
	"strings"

	"github.com/jdkato/prose/v2"
)

// Entity is a named span found in text.
type Entity struct {
	Text  string
	Label string
}

// EntityTagger returns named entities in document order.
type EntityTagger interface {
	Entities(text string) []Entity
}

const personLabel = "PERSON"

type proseTagger struct{}

func (proseTagger) Entities(text string) []Entity {
	doc, err := prose.NewDocument(text, prose.WithSegmentation(false))
	if err != nil {
		return nil
	}
	ents := doc.Entities()
	out := make([]Entity, 0, len(ents))
	for _, e := range ents {
		out = append(out, Entity{Text: e.Text, Label: e.Label})
	}
	return out
}

// ExtractIdentity returns the first person entity in text. Later person names
// are ignored: a resume states the candidate's name near the top.
func (n *Normalizer) ExtractIdentity(text string) (string, bool) {
	if strings.TrimSpace(text) == "" {
		return "", false
	}
	for _, e := range n.tagger.Entities(text) {
		if e.Label != personLabel {
			continue
		}
		if name := strings.Join(strings.Fields(e.Text), " "); name != "" {
			return name, true
		}
	}
	return "", false
}
