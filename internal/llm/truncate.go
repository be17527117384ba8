package llm

import (
	"regexp"
	"strings"
)

// DefaultMaxSentences bounds free-text feedback.
const DefaultMaxSentences = 3

var reSentenceEnd = regexp.MustCompile(`[.!?]\s+`)

// TruncateSentences keeps the first n sentences of s, where a sentence ends at
// '.', '!' or '?' followed by whitespace. Kept sentences are joined by a
// single space.
func TruncateSentences(s string, n int) string {
	s = strings.TrimSpace(s)
	if s == "" || n <= 0 {
		return ""
	}
	var segs []string
	start := 0
	for _, loc := range reSentenceEnd.FindAllStringIndex(s, -1) {
		segs = append(segs, s[start:loc[0]+1])
		start = loc[1]
		if len(segs) == n {
			return strings.Join(segs, " ")
		}
	}
	segs = append(segs, s[start:])
	return strings.Join(segs, " ")
}
