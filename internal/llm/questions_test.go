package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractQuestions_JSONArray(t *testing.T) {
	raw := `["Q1?","Q2?","Q3?","Q4?","Q5?","Q6?"]`
	assert.Equal(t, []string{"Q1?", "Q2?", "Q3?", "Q4?", "Q5?", "Q6?"}, ExtractQuestions(raw, 6))
}

func TestExtractQuestions_FencedArray(t *testing.T) {
	raw := "Here you go:\n```json\n[\"A?\", \"B?\", \"C\"]\n```"
	assert.Equal(t, []string{"A?", "B?", "C"}, ExtractQuestions(raw, 3))
}

func TestExtractQuestions_LineFallback(t *testing.T) {
	raw := `Here are your questions:
- What project are you proudest of?
* Which Go libraries do you use most?
Thanks for reading
1. Where did you study?
2) How do you handle conflict in a team?`

	got := ExtractQuestions(raw, 6)

	assert.Equal(t, []string{
		"What project are you proudest of?",
		"Which Go libraries do you use most?",
		"Where did you study?",
		"How do you handle conflict in a team?",
	}, got)
}

func TestExtractQuestions_CapsAtExpected(t *testing.T) {
	raw := "a?\nb?\nc?\nd?\ne?\nf?\ng?\nh?"
	assert.Equal(t, []string{"a?", "b?", "c?", "d?", "e?", "f?"}, ExtractQuestions(raw, 6))
	assert.Len(t, ExtractQuestions(raw, 0), DefaultQuestionCount)
}

func TestExtractQuestions_ArrayWrongCount(t *testing.T) {
	raw := `["One?", "Two?", "not a question"]`
	assert.Equal(t, []string{"One?", "Two?"}, ExtractQuestions(raw, 6))
}

func TestExtractQuestions_Empty(t *testing.T) {
	assert.Empty(t, ExtractQuestions("", 6))
	assert.Empty(t, ExtractQuestions("no questions here.\nnone at all", 6))
}

func TestCleanLines(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", " \n\n ", ""},
		{"plain", "  What drew you to Go?  ", "What drew you to Go?"},
		{"dash bullets", "- Good point.\n\n- What would you change? -", "Good point.\nWhat would you change?"},
		{"mixed markers", "* First.\n• Second?\n1. Third?", "First.\nSecond?\nThird?"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanLines(tt.in))
		})
	}
}

func TestTruncateSentences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		n    int
		want string
	}{
		{"empty", "", 3, ""},
		{"single", "Just one", 3, "Just one"},
		{"exact", "One. Two! Three?", 3, "One. Two! Three?"},
		{"cut", "One. Two! Three? Four.", 3, "One. Two! Three?"},
		{"newline boundary", "One.\nTwo.\n\nThree. Four.", 2, "One. Two."},
		{"decimal kept", "Scored 8.5 overall. Nice.", 1, "Scored 8.5 overall."},
		{"zero", "One. Two.", 0, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TruncateSentences(tt.in, tt.n))
		})
	}
}
