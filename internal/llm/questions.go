package llm

import (
	"regexp"
	"strings"

	"github.com/tidwall/gjson"
)

// DefaultQuestionCount is how many questions an interview plan holds.
const DefaultQuestionCount = 6

var (
	reFencedArray = regexp.MustCompile("(?i)```(?:json)?\\s*(\\[[\\s\\S]*?\\])\\s*```")
	reBullet      = regexp.MustCompile(`^(?:[-*•]+|\d+[.)]|["'])\s*`)
)

// ExtractQuestions pulls an ordered question list out of model text. A JSON
// array of exactly expected strings is returned as-is; otherwise lines
// carrying a '?' are kept with bullet markers stripped, capped at expected.
func ExtractQuestions(raw string, expected int) []string {
	if expected <= 0 {
		expected = DefaultQuestionCount
	}
	text := strings.TrimSpace(raw)
	if text == "" {
		return nil
	}

	lines := strings.Split(text, "\n")
	for _, candidate := range arrayCandidates(text) {
		items, ok := stringArray(candidate)
		if !ok {
			continue
		}
		if len(items) == expected {
			return items
		}
		// right shape, wrong count: scan its items like lines
		lines = items
		break
	}

	out := make([]string, 0, expected)
	for _, ln := range lines {
		if !strings.Contains(ln, "?") {
			continue
		}
		q := cleanQuestionLine(ln)
		if q == "" {
			continue
		}
		out = append(out, q)
		if len(out) == expected {
			break
		}
	}
	return out
}

func arrayCandidates(text string) []string {
	cands := []string{text}
	for _, m := range reFencedArray.FindAllStringSubmatch(text, -1) {
		cands = append(cands, m[1])
	}
	return cands
}

// stringArray accepts only a JSON array whose items are all strings.
func stringArray(s string) ([]string, bool) {
	s = strings.TrimSpace(s)
	if !gjson.Valid(s) {
		return nil, false
	}
	res := gjson.Parse(s)
	if !res.IsArray() {
		return nil, false
	}
	arr := res.Array()
	out := make([]string, 0, len(arr))
	for _, item := range arr {
		if item.Type != gjson.String {
			return nil, false
		}
		out = append(out, item.String())
	}
	return out, true
}

// CleanLines strips list markers from every line of model text and drops
// the lines left empty.
func CleanLines(raw string) string {
	var out []string
	for _, ln := range strings.Split(raw, "\n") {
		ln = strings.TrimSpace(strings.TrimRight(cleanQuestionLine(ln), "- "))
		if ln != "" {
			out = append(out, ln)
		}
	}
	return strings.Join(out, "\n")
}

func cleanQuestionLine(ln string) string {
	q := strings.TrimSpace(ln)
	for {
		next := strings.TrimSpace(reBullet.ReplaceAllString(q, ""))
		if next == q {
			break
		}
		q = next
	}
	q = strings.TrimRight(q, `",'`)
	return strings.TrimSpace(q)
}
