package relevance

import (
	"math"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
)

// ExtractKeyphrases returns at most topN unique one- and two-lemma phrases
// ranked by maximal marginal relevance against the whole document. Scores are
// the marginal relevance at selection time and never increase down the list.
func (s *Scorer) ExtractKeyphrases(text string, topN int) []Keyphrase {
	if topN <= 0 {
		topN = DefaultTopN
	}
	norm := s.norm.Normalize(text)
	if norm.Empty() {
		return nil
	}

	cands := candidates(norm.Tokens)
	docVec := s.emb.Embed(norm.Tokens)
	vecs := make([][]float64, len(cands))
	rel := make([]float64, len(cands))
	for i, c := range cands {
		vecs[i] = s.emb.Embed(strings.Fields(c))
		rel[i] = cosine(docVec, vecs[i])
	}

	lambda := 1 - s.diversity
	maxSim := make([]float64, len(cands))
	picked := make([]bool, len(cands))
	limit := min(topN, len(cands))
	out := make([]Keyphrase, 0, limit)

	for len(out) < limit {
		best, bestScore := -1, math.Inf(-1)
		for i := range cands {
			if picked[i] {
				continue
			}
			mmr := lambda*rel[i] - s.diversity*maxSim[i]
			if mmr > bestScore {
				best, bestScore = i, mmr
			}
		}
		if best < 0 {
			break
		}
		picked[best] = true
		out = append(out, Keyphrase{Phrase: cands[best], Score: bestScore})

		for i := range cands {
			if picked[i] {
				continue
			}
			if sim := cosine(vecs[i], vecs[best]); sim > maxSim[i] {
				maxSim[i] = sim
			}
		}
	}

	s.logger.Debug("relevance.keyphrases",
		"tokens", len(norm.Tokens),
		"candidates", len(cands),
		"returned", len(out),
	)
	return out
}

// candidates lists unigrams and adjacent bigrams in first-seen order.
func candidates(tokens []string) []string {
	seen := mapset.NewThreadUnsafeSet[string]()
	out := make([]string, 0, 2*len(tokens))
	push := func(p string) {
		if seen.Add(p) {
			out = append(out, p)
		}
	}
	for i, tok := range tokens {
		push(tok)
		if i+1 < len(tokens) && tokens[i+1] != tok {
			push(tok + " " + tokens[i+1])
		}
	}
	return out
}
