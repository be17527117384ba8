package llm

import (
	"context"

	"github.com/joseph-ayodele/careermate/constants"
)

// EvaluationRecord is the normalized shape recovered from a model's answer
// evaluation. Feedback is always set; Raw is set only when the record had to
// be synthesized from unparseable text.
type EvaluationRecord struct {
	Score             *float64 `json:"score"`
	Feedback          string   `json:"feedback"`
	Strengths         any      `json:"strengths"`    // string or list, as the model sent it
	Improvements      any      `json:"improvements"` // string or list, as the model sent it
	FollowUpQuestions []string `json:"followUpQuestions"`
	Raw               *string  `json:"raw,omitempty"`
}

// Degraded reports whether the record was synthesized from raw text.
func (r EvaluationRecord) Degraded() bool { return r.Raw != nil }

func (r EvaluationRecord) Status() constants.RecordStatus {
	if r.Degraded() {
		return constants.RecordDegraded
	}
	return constants.RecordParsed
}

// Turn is one answered interview question, as handed to the report prompt.
type Turn struct {
	Question string
	Answer   string
	Record   EvaluationRecord
}

// Generator is the text-completion collaborator: prompt in, free text out.
// Its output is untrusted.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(ctx context.Context, prompt string) (string, error)

func (f GeneratorFunc) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}
