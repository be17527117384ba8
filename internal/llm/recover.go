package llm

import (
	"context"
	"encoding/json"
	"log/slog"
	"regexp"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/joseph-ayodele/careermate/internal/common"
)

// DefaultRequiredFields must be present for a parsed record to be trusted.
var DefaultRequiredFields = []string{"feedback"}

// maxBalancedAttempts bounds the balanced-brace scan on long prose.
const maxBalancedAttempts = 32

var reFencedJSON = regexp.MustCompile("(?i)```json\\s*(\\{[\\s\\S]*?\\})\\s*```")

// strategy tries to pull a JSON object out of free text.
type strategy struct {
	name string
	fn   func(string) (map[string]any, bool)
}

// chain is tried in order; the first object that also validates wins.
var chain = []strategy{
	{name: "fenced_json", fn: fencedJSONBlock},
	{name: "brace_region", fn: firstBraceRegion},
}

// Recoverer turns loosely structured model output into an EvaluationRecord.
// It is safe for concurrent use.
type Recoverer struct {
	logger       *slog.Logger
	maxSentences int
	required     []string
	schemas      *schemaCache
}

type RecovererOption func(*Recoverer)

func WithMaxSentences(n int) RecovererOption {
	return func(r *Recoverer) {
		if n > 0 {
			r.maxSentences = n
		}
	}
}

func WithRequiredFields(fields ...string) RecovererOption {
	return func(r *Recoverer) {
		if len(fields) > 0 {
			r.required = append([]string(nil), fields...)
		}
	}
}

func NewRecoverer(logger *slog.Logger, opts ...RecovererOption) *Recoverer {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Recoverer{
		logger:       logger,
		maxSentences: DefaultMaxSentences,
		required:     DefaultRequiredFields,
		schemas:      &schemaCache{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Recover never fails. When no strategy yields an object carrying every
// required field, it returns a degraded record whose Feedback is the
// truncated text and whose Raw holds the full trimmed text.
func (r *Recoverer) Recover(raw string, required ...string) EvaluationRecord {
	return r.RecoverContext(context.Background(), raw, required...)
}

// RecoverContext is Recover with request-scoped logging.
func (r *Recoverer) RecoverContext(ctx context.Context, raw string, required ...string) EvaluationRecord {
	if len(required) == 0 {
		required = r.required
	}
	log := r.logger
	if id := common.RequestIDFromContext(ctx); id != "" {
		log = log.With("req_id", id)
	}

	schema, err := r.schemas.get(required)
	if err != nil {
		log.Error("llm.recover.schema_error", "error", err)
	}

	var reason string
	for _, s := range chain {
		obj, ok := s.fn(raw)
		if !ok {
			continue
		}
		// required keys are checked as the model sent them, before any renaming
		if !hasFields(obj, required) {
			reason = "missing required field"
			log.Debug("llm.recover.incomplete", "strategy", s.name, "required", required)
			continue
		}
		changed := sanitizeEvaluation(obj)
		if len(changed) > 0 {
			log.Debug("llm.recover.sanitized", "strategy", s.name, "changed", changed)
		}
		if !hasFields(obj, required) {
			reason = "missing required field"
			log.Debug("llm.recover.incomplete", "strategy", s.name, "required", required)
			continue
		}
		if schema != nil {
			if err := validateObject(schema, obj); err != nil {
				reason = "schema"
				log.Debug("llm.recover.invalid", "strategy", s.name, "error", err)
				continue
			}
		}
		rec := r.fromObject(obj)
		log.Info("llm.recover.parsed", "strategy", s.name, "has_score", rec.Score != nil)
		return rec
	}

	if reason == "" {
		reason = "no json object"
	}
	rec := r.degraded(raw)
	log.Warn("llm.recover.degraded", "reason", reason, "raw_len", len(*rec.Raw))
	return rec
}

func (r *Recoverer) fromObject(obj map[string]any) EvaluationRecord {
	rec := EvaluationRecord{
		Strengths:    obj["strengths"],
		Improvements: obj["improvements"],
	}
	if f, ok := obj["score"].(float64); ok {
		rec.Score = &f
	}
	if s, ok := obj["feedback"].(string); ok {
		rec.Feedback = TruncateSentences(s, r.maxSentences)
	}
	if v, ok := obj["followUpQuestions"]; ok {
		rec.FollowUpQuestions = stringList(v)
	}
	return rec
}

func (r *Recoverer) degraded(raw string) EvaluationRecord {
	trimmed := strings.TrimSpace(raw)
	return EvaluationRecord{
		Feedback: TruncateSentences(trimmed, r.maxSentences),
		Raw:      &trimmed,
	}
}

func hasFields(obj map[string]any, fields []string) bool {
	for _, f := range fields {
		if v, ok := obj[f]; !ok || v == nil {
			return false
		}
	}
	return true
}

// fencedJSONBlock parses the first ```json fenced block holding an object.
func fencedJSONBlock(text string) (map[string]any, bool) {
	for _, m := range reFencedJSON.FindAllStringSubmatch(text, -1) {
		if obj, ok := parseObject(m[1]); ok {
			return obj, true
		}
	}
	return nil, false
}

// firstBraceRegion tries the span from the first '{' to the last '}', then
// falls back to balanced spans starting at each '{' in turn.
func firstBraceRegion(text string) (map[string]any, bool) {
	first := strings.IndexByte(text, '{')
	last := strings.LastIndexByte(text, '}')
	if first < 0 || last <= first {
		return nil, false
	}
	if obj, ok := parseObject(text[first : last+1]); ok {
		return obj, true
	}

	attempts := 0
	for i := first; i < len(text) && attempts < maxBalancedAttempts; i++ {
		if text[i] != '{' {
			continue
		}
		attempts++
		end := balancedEnd(text, i)
		if end < 0 {
			continue
		}
		if obj, ok := parseObject(text[i : end+1]); ok {
			return obj, true
		}
	}
	return nil, false
}

// balancedEnd returns the index of the '}' closing the '{' at start, skipping
// braces inside JSON strings, or -1.
func balancedEnd(text string, start int) int {
	depth := 0
	inString, escaped := false, false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func parseObject(candidate string) (map[string]any, bool) {
	candidate = strings.TrimSpace(candidate)
	if !gjson.Valid(candidate) || !gjson.Parse(candidate).IsObject() {
		return nil, false
	}
	var obj map[string]any
	if err := json.Unmarshal([]byte(candidate), &obj); err != nil {
		return nil, false
	}
	return obj, true
}
