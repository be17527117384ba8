package llm

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// synonyms seen in model output, mapped to our keys. Nothing maps onto a
// required field: a record must name those itself to be trusted.
var fieldSynonyms = map[string]string{
	"rating":                "score",
	"grade":                 "score",
	"strength":              "strengths",
	"improvement":           "improvements",
	"areas_for_improvement": "improvements",
	"areasForImprovement":   "improvements",
	"weaknesses":            "improvements",
	"follow_up_questions":   "followUpQuestions",
	"followups":             "followUpQuestions",
	"followUps":             "followUpQuestions",
	"follow_up":             "followUpQuestions",
}

var knownFields = map[string]struct{}{
	"score": {}, "feedback": {}, "strengths": {}, "improvements": {}, "followUpQuestions": {},
}

var reScore = regexp.MustCompile(`(?i)^\s*(-?\d+(?:\.\d+)?)\s*(?:(?:/|out of)\s*(\d+(?:\.\d+)?))?\s*$`)

// sanitizeEvaluation normalizes a decoded evaluation object in place so it
// can be validated:
//   - renames known synonyms
//   - coerces score ("8", "8/10", "80 out of 100") to a number, dropping it if unparseable
//   - turns scalar feedback into a string
//   - drops null or empty optionals and unknown keys
//
// It returns the keys it dropped or renamed.
func sanitizeEvaluation(m map[string]any) []string {
	var changed []string

	for from, to := range fieldSynonyms {
		v, ok := m[from]
		if !ok {
			continue
		}
		if _, exists := m[to]; !exists {
			m[to] = v
		}
		delete(m, from)
		changed = append(changed, from+"->"+to)
	}

	if v, ok := m["score"]; ok {
		if f, ok := coerceScore(v); ok {
			m["score"] = f
		} else {
			delete(m, "score")
			changed = append(changed, "score(unparseable)")
		}
	}

	switch v := m["feedback"].(type) {
	case string:
		m["feedback"] = strings.TrimSpace(v)
	case float64, bool:
		m["feedback"] = fmt.Sprint(v)
	case nil:
		delete(m, "feedback")
	}

	for _, k := range []string{"strengths", "improvements", "followUpQuestions"} {
		v, ok := m[k]
		if !ok {
			continue
		}
		switch t := v.(type) {
		case nil:
			delete(m, k)
			changed = append(changed, k+"(null)")
		case string:
			s := strings.TrimSpace(t)
			if s == "" {
				delete(m, k)
				changed = append(changed, k+"(empty)")
				continue
			}
			if k == "followUpQuestions" {
				m[k] = []any{s}
			} else {
				m[k] = s
			}
		case []any:
			m[k] = compactList(t)
		default:
			delete(m, k)
			changed = append(changed, k+"(type)")
		}
	}

	for k := range m {
		if _, ok := knownFields[k]; !ok {
			delete(m, k)
			changed = append(changed, k+"(unknown)")
		}
	}
	return changed
}

func coerceScore(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, !math.IsNaN(t) && !math.IsInf(t, 0)
	case string:
		sm := reScore.FindStringSubmatch(t)
		if sm == nil {
			return 0, false
		}
		n, err := strconv.ParseFloat(sm[1], 64)
		if err != nil {
			return 0, false
		}
		if sm[2] == "" {
			return n, true
		}
		d, err := strconv.ParseFloat(sm[2], 64)
		if err != nil || d == 0 {
			return 0, false
		}
		return math.Round(n/d*100) / 10, true // scale to 0..10
	}
	return 0, false
}

// compactList stringifies scalar list items and drops empty ones.
func compactList(in []any) []any {
	out := make([]any, 0, len(in))
	for _, item := range in {
		switch t := item.(type) {
		case nil:
		case string:
			if s := strings.TrimSpace(t); s != "" {
				out = append(out, s)
			}
		case map[string]any, []any:
			out = append(out, t)
		default:
			out = append(out, fmt.Sprint(t))
		}
	}
	return out
}

// stringList flattens a sanitized list into strings.
func stringList(v any) []string {
	list, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(list))
	for _, item := range list {
		if s, ok := item.(string); ok {
			out = append(out, s)
		} else {
			out = append(out, fmt.Sprint(item))
		}
	}
	return out
}
