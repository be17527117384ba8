package interview

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/careermate/constants"
	"github.com/joseph-ayodele/careermate/internal/common"
	"github.com/joseph-ayodele/careermate/internal/llm"
)

// scriptedGenerator replays outputs in order and repeats the last one.
type scriptedGenerator struct {
	mu      sync.Mutex
	outputs []string
	err     error
	prompts []string
}

func (g *scriptedGenerator) Generate(_ context.Context, prompt string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.prompts = append(g.prompts, prompt)
	if g.err != nil {
		return "", g.err
	}
	if len(g.outputs) == 0 {
		return "", nil
	}
	out := g.outputs[0]
	if len(g.outputs) > 1 {
		g.outputs = g.outputs[1:]
	}
	return out, nil
}

const resumeText = "Jane Doe. Backend engineer. Built payment services in Go. BSc Computer Science."

func TestSession_TopicCoverage(t *testing.T) {
	s := NewSession("Jane Doe", resumeText, "")
	require.NotEmpty(t, s.ID)
	assert.Equal(t, constants.InterviewTopics(), s.Remaining())
	assert.Empty(t, s.Covered())

	assert.True(t, s.Cover(constants.TopicEducation))
	assert.False(t, s.Cover(constants.TopicEducation))
	assert.False(t, s.Cover(constants.TopicOther))
	assert.True(t, s.Cover(constants.TopicProjects))

	assert.Equal(t, []constants.Topic{constants.TopicProjects, constants.TopicEducation}, s.Covered())
	assert.NotContains(t, s.Remaining(), constants.TopicEducation)
	assert.Len(t, s.Remaining(), len(constants.InterviewTopics())-2)
}

func TestSession_TurnsAreCopied(t *testing.T) {
	s := NewSession("", resumeText, "")
	s.Record(llm.Turn{Question: "q1", Answer: "a1"})
	turns := s.Turns()
	turns[0].Question = "changed"
	assert.Equal(t, "q1", s.Turns()[0].Question)
}

func TestGenerateQuestions(t *testing.T) {
	gen := &scriptedGenerator{outputs: []string{"```json\n[\"Q1?\",\"Q2?\",\"Q3?\",\"Q4?\",\"Q5?\",\"Q6?\"]\n```"}}
	svc := NewService(gen, nil, nil)

	qs, err := svc.GenerateQuestions(context.Background(), resumeText)
	require.NoError(t, err)
	assert.Equal(t, []string{"Q1?", "Q2?", "Q3?", "Q4?", "Q5?", "Q6?"}, qs)
	require.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0], "Backend engineer")
}

func TestGenerateQuestions_RequiresResume(t *testing.T) {
	svc := NewService(&scriptedGenerator{}, nil, nil)
	_, err := svc.GenerateQuestions(context.Background(), "  ")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestEvaluateAnswer(t *testing.T) {
	t.Run("parsed", func(t *testing.T) {
		gen := &scriptedGenerator{outputs: []string{"Here you go:\n```json\n{\"score\": 8, \"feedback\": \"Clear and specific.\"}\n```"}}
		rec, err := NewService(gen, nil, nil).EvaluateAnswer(context.Background(), "Why Go?", "Simplicity.", resumeText)
		require.NoError(t, err)
		assert.False(t, rec.Degraded())
		require.NotNil(t, rec.Score)
		assert.InDelta(t, 8.0, *rec.Score, 1e-9)
		assert.Equal(t, "Clear and specific.", rec.Feedback)
	})

	t.Run("degraded", func(t *testing.T) {
		gen := &scriptedGenerator{outputs: []string{"Good answer. Needs numbers. Mention scale. Add tests."}}
		rec, err := NewService(gen, nil, nil).EvaluateAnswer(context.Background(), "Why Go?", "Simplicity.", "")
		require.NoError(t, err)
		assert.True(t, rec.Degraded())
		assert.Equal(t, "Good answer. Needs numbers. Mention scale.", rec.Feedback)
	})

	t.Run("generator failure", func(t *testing.T) {
		gen := &scriptedGenerator{err: errors.New("quota exceeded")}
		_, err := NewService(gen, nil, nil).EvaluateAnswer(context.Background(), "Why Go?", "Simplicity.", "")
		require.Error(t, err)
		assert.ErrorIs(t, err, common.ErrGeneration)
		assert.Equal(t, common.CodeGeneration, common.CodeOf(err))
	})
}

func TestAnswer_RecordsTurnAndTopic(t *testing.T) {
	gen := &scriptedGenerator{outputs: []string{`{"score": 6, "feedback": "Fine."}`}}
	svc := NewService(gen, nil, nil)
	sess := NewSession("Jane Doe", resumeText, "")

	_, err := svc.Answer(context.Background(), sess, "Which degree did you study for at university?", "Computer Science.")
	require.NoError(t, err)

	require.Len(t, sess.Turns(), 1)
	assert.Equal(t, "Fine.", sess.Turns()[0].Record.Feedback)
	assert.True(t, sess.IsCovered(constants.TopicEducation))
}

func TestNextQuestion_TargetsFirstUncoveredTopic(t *testing.T) {
	gen := &scriptedGenerator{outputs: []string{"Tell me about a project you built?"}}
	svc := NewService(gen, nil, nil)
	sess := NewSession("", resumeText, "I build payment systems.")

	q, err := svc.NextQuestion(context.Background(), sess)
	require.NoError(t, err)

	assert.Equal(t, constants.TopicProjects, q.Topic)
	assert.Equal(t, 1, q.Attempts)
	assert.False(t, q.Fallback)
	assert.True(t, sess.IsCovered(constants.TopicProjects))
	require.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0], "MUST be about")
	assert.Contains(t, gen.prompts[0], "I build payment systems.")
}

func TestNextQuestion_RepromptsOnCoveredTopic(t *testing.T) {
	gen := &scriptedGenerator{outputs: []string{
		"Nice. Tell me about a project you built?",
		"Great.\nWhich project are you proudest of?",
		"Thanks. What motivates you in your career?",
	}}
	svc := NewService(gen, nil, nil)
	sess := NewSession("", resumeText, "")
	sess.Cover(constants.TopicProjects)

	q, err := svc.NextQuestion(context.Background(), sess)
	require.NoError(t, err)

	assert.Equal(t, constants.TopicMotivation, q.Topic)
	assert.Equal(t, 3, q.Attempts)
	assert.Len(t, gen.prompts, 3)
	assert.Contains(t, gen.prompts[0], "must NOT be asked about again")
	assert.True(t, sess.IsCovered(constants.TopicMotivation))
}

func TestNextQuestion_RepromptLimit(t *testing.T) {
	gen := &scriptedGenerator{outputs: []string{"Tell me about a project you built?"}}
	svc := NewService(gen, nil, nil, WithMaxReprompts(1))
	sess := NewSession("", resumeText, "")
	sess.Cover(constants.TopicProjects)

	q, err := svc.NextQuestion(context.Background(), sess)
	require.NoError(t, err)

	assert.Equal(t, "Tell me about a project you built?", q.Text)
	assert.Equal(t, constants.TopicProjects, q.Topic)
	assert.Equal(t, 2, q.Attempts)
	assert.Len(t, gen.prompts, 2)
}

func TestNextQuestion_StripsBulletsAndBlankLines(t *testing.T) {
	gen := &scriptedGenerator{outputs: []string{"\n- Thanks for sharing.\n\n  - What motivates you in your career?\n"}}
	sess := NewSession("", resumeText, "")

	q, err := NewService(gen, nil, nil).NextQuestion(context.Background(), sess)
	require.NoError(t, err)

	assert.Equal(t, "Thanks for sharing.\nWhat motivates you in your career?", q.Text)
	assert.Equal(t, constants.TopicMotivation, q.Topic)
	assert.False(t, q.Fallback)
}

func TestNextQuestion_OnlyMarkersFallsBack(t *testing.T) {
	gen := &scriptedGenerator{outputs: []string{"-\n - \n"}}

	q, err := NewService(gen, nil, nil).NextQuestion(context.Background(), NewSession("", resumeText, ""))
	require.NoError(t, err)

	assert.Equal(t, FallbackQuestion, q.Text)
	assert.True(t, q.Fallback)
}

func TestNextQuestion_FallbackOnEmptyOutput(t *testing.T) {
	gen := &scriptedGenerator{outputs: []string{"   "}}
	sess := NewSession("", resumeText, "")

	q, err := NewService(gen, nil, nil).NextQuestion(context.Background(), sess)
	require.NoError(t, err)

	assert.Equal(t, FallbackQuestion, q.Text)
	assert.True(t, q.Fallback)
	assert.True(t, sess.IsCovered(constants.TopicProjects))
}

func TestNextQuestion_GeneratorFailure(t *testing.T) {
	gen := &scriptedGenerator{err: errors.New("unavailable")}
	_, err := NewService(gen, nil, nil).NextQuestion(context.Background(), NewSession("", resumeText, ""))
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrGeneration)
}

func TestFinalReport(t *testing.T) {
	gen := &scriptedGenerator{outputs: []string{"\n  Overall a solid interview.  \n"}}
	svc := NewService(gen, nil, nil)
	score := 7.0
	turns := []llm.Turn{{Question: "Why Go?", Answer: "Simplicity.", Record: llm.EvaluationRecord{Score: &score, Feedback: "Good."}}}

	report, err := svc.FinalReport(context.Background(), "Jane Doe", turns)
	require.NoError(t, err)
	assert.Equal(t, "Overall a solid interview.", report)
	assert.Contains(t, gen.prompts[0], "Jane Doe")
	assert.Contains(t, gen.prompts[0], "Score: 7/10")

	_, err = svc.FinalReport(context.Background(), "Jane Doe", nil)
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestAdvise(t *testing.T) {
	gen := &scriptedGenerator{outputs: []string{"Highlight your Kafka work."}}
	out, err := NewService(gen, nil, nil).Advise(context.Background(), resumeText, "Kafka engineer", "How do I stand out?")
	require.NoError(t, err)
	assert.Equal(t, "Highlight your Kafka work.", out)

	out, err = NewService(&scriptedGenerator{outputs: []string{""}}, nil, nil).Advise(context.Background(), resumeText, "", "Help?")
	require.NoError(t, err)
	assert.Equal(t, FallbackAdvice, out)
}

func TestService_NoGenerator(t *testing.T) {
	_, err := NewService(nil, nil, nil).GenerateQuestions(context.Background(), resumeText)
	assert.ErrorIs(t, err, common.ErrConfig)
}

func TestAskedPart(t *testing.T) {
	cases := map[string]string{
		"Nice answer. What project are you proud of?":    " What project are you proud of",
		"Good.\nWhy this team?":                          "Why this team",
		"Tell me about your degree":                      "Tell me about your degree",
		"Which tool? And why!\nThanks for sharing that.": "Which tool",
	}
	for in, want := range cases {
		assert.Equal(t, want, askedPart(in), in)
	}
}
