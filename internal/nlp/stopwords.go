package nlp

import (
	mapset "github.com/deckarep/golang-set/v2"
)

// English stop words, close to the common spaCy/NLTK lists.
var stopWords = mapset.NewThreadUnsafeSet[string](
	"a", "about", "above", "after", "again", "against", "all", "almost", "also", "am", "among", "an",
	"and", "any", "are", "around", "as", "at", "be", "because", "been", "before", "being", "below",
	"between", "both", "but", "by", "can", "cannot", "could", "did", "do", "does", "doing", "done",
	"down", "during", "each", "either", "else", "etc", "ever", "every", "few", "for", "from", "further",
	"get", "got", "had", "has", "have", "having", "he", "her", "here", "hers", "herself", "him",
	"himself", "his", "how", "however", "i", "if", "in", "into", "is", "it", "its", "itself", "just",
	"least", "less", "many", "may", "me", "might", "more", "most", "much", "must", "my", "myself",
	"neither", "no", "nor", "not", "now", "of", "off", "often", "on", "once", "only", "or", "other",
	"our", "ours", "ourselves", "out", "over", "own", "per", "perhaps", "please", "quite", "rather",
	"really", "same", "several", "shall", "she", "should", "since", "so", "some", "such", "than",
	"that", "the", "their", "theirs", "them", "themselves", "then", "there", "these", "they", "this",
	"those", "though", "through", "thus", "to", "too", "under", "until", "up", "upon", "us", "very",
	"via", "was", "we", "well", "were", "what", "whatever", "when", "where", "whether", "which",
	"while", "who", "whom", "whose", "why", "will", "with", "within", "without", "would", "yet",
	"you", "your", "yours", "yourself", "yourselves",
)

// IsStopWord reports whether w (lowercase) is an English stop word.
func IsStopWord(w string) bool {
	return stopWords.Contains(w)
}
