// Package interview runs mock interviews on top of a text generator: question
// lists, answer evaluation, topic-aware follow-up questions and final reports.
package interview

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/joseph-ayodele/careermate/constants"
	"github.com/joseph-ayodele/careermate/internal/common"
	"github.com/joseph-ayodele/careermate/internal/llm"
)

const (
	DefaultMaxReprompts = 2

	// FallbackQuestion is asked when the generator returns nothing usable.
	FallbackQuestion = "Can you tell me more about your experience?"
	// FallbackAdvice is returned when the coach prompt yields no text.
	FallbackAdvice = "Sorry, I could not generate a response at this time."
)

// Question is a generated follow-up with the topic it was classified under.
type Question struct {
	Text     string          `json:"text"`
	Topic    constants.Topic `json:"topic"`
	Attempts int             `json:"attempts"`
	Fallback bool            `json:"fallback,omitempty"`
}

type Service struct {
	gen    llm.Generator
	rec    *llm.Recoverer
	logger *slog.Logger

	questionCount int
	maxReprompts  int
}

type Option func(*Service)

func WithQuestionCount(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.questionCount = n
		}
	}
}

// WithMaxReprompts bounds how often NextQuestion asks again after the model
// repeats a covered topic. Zero disables re-prompting.
func WithMaxReprompts(n int) Option {
	return func(s *Service) {
		if n >= 0 {
			s.maxReprompts = n
		}
	}
}

func NewService(gen llm.Generator, rec *llm.Recoverer, logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if rec == nil {
		rec = llm.NewRecoverer(logger)
	}
	s := &Service{
		gen:           gen,
		rec:           rec,
		logger:        logger,
		questionCount: llm.DefaultQuestionCount,
		maxReprompts:  DefaultMaxReprompts,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// GenerateQuestions asks for a fixed number of questions about resume.
func (s *Service) GenerateQuestions(ctx context.Context, resume string) ([]string, error) {
	if strings.TrimSpace(resume) == "" {
		return nil, common.NewAppError(common.CodeInput, "resume text is required", common.ErrInvalidInput)
	}
	raw, err := s.generate(ctx, "questions", llm.BuildQuestionsPrompt(resume, s.questionCount))
	if err != nil {
		return nil, err
	}
	qs := llm.ExtractQuestions(raw, s.questionCount)
	s.logger.Info("interview.questions.ok",
		"req_id", common.RequestIDFromContext(ctx),
		"count", len(qs),
		"expected", s.questionCount,
	)
	return qs, nil
}

// EvaluateAnswer grades one answer. Unparseable model output yields a
// degraded record, not an error.
func (s *Service) EvaluateAnswer(ctx context.Context, question, answer, resume string) (llm.EvaluationRecord, error) {
	if strings.TrimSpace(question) == "" {
		return llm.EvaluationRecord{}, common.NewAppError(common.CodeInput, "question is required", common.ErrInvalidInput)
	}
	raw, err := s.generate(ctx, "evaluate", llm.BuildEvaluationPrompt(question, answer, resume))
	if err != nil {
		return llm.EvaluationRecord{}, err
	}
	return s.rec.RecoverContext(ctx, raw), nil
}

// Answer evaluates an answer and records the turn on sess.
func (s *Service) Answer(ctx context.Context, sess *Session, question, answer string) (llm.EvaluationRecord, error) {
	rec, err := s.EvaluateAnswer(ctx, question, answer, sess.Resume)
	if err != nil {
		return rec, err
	}
	sess.Record(llm.Turn{Question: question, Answer: answer, Record: rec})
	if t, ok := constants.Canonicalize(question); ok {
		sess.Cover(t)
	}
	return rec, nil
}

// NextQuestion generates the next question for sess, steering the model to
// the first uncovered topic. A question on an already covered topic is
// re-requested up to the reprompt limit; the last answer is kept after that.
func (s *Service) NextQuestion(ctx context.Context, sess *Session) (Question, error) {
	reqID := common.RequestIDFromContext(ctx)
	req := llm.NextQuestionRequest{
		Resume:  sess.Resume,
		Intro:   sess.Intro,
		History: sess.Turns(),
		Covered: sess.Covered(),
	}
	if remaining := sess.Remaining(); len(remaining) > 0 {
		req.Target = remaining[0]
	}

	var q Question
	for attempt := 0; attempt <= s.maxReprompts; attempt++ {
		raw, err := s.generate(ctx, "next_question", llm.BuildNextQuestionPrompt(req))
		if err != nil {
			return Question{}, err
		}
		text := llm.CleanLines(raw)
		q = Question{Text: text, Attempts: attempt + 1}
		if text == "" {
			break
		}
		q.Topic, _ = constants.Canonicalize(askedPart(text))
		if q.Topic == constants.TopicOther || !sess.IsCovered(q.Topic) {
			break
		}
		s.logger.Debug("interview.next_question.repeat",
			"req_id", reqID,
			"topic", string(q.Topic),
			"attempt", attempt+1,
		)
	}

	if q.Text == "" {
		q = Question{Text: FallbackQuestion, Topic: constants.TopicProjects, Attempts: q.Attempts, Fallback: true}
	}
	sess.Cover(q.Topic)
	s.logger.Info("interview.next_question.ok",
		"req_id", reqID,
		"session", sess.ID,
		"topic", string(q.Topic),
		"attempts", q.Attempts,
		"fallback", q.Fallback,
	)
	return q, nil
}

// FinalReport asks for a narrative report over the recorded turns.
func (s *Service) FinalReport(ctx context.Context, candidate string, turns []llm.Turn) (string, error) {
	if len(turns) == 0 {
		return "", common.NewAppError(common.CodeInput, "no answered questions to report on", common.ErrInvalidInput)
	}
	raw, err := s.generate(ctx, "report", llm.BuildReportPrompt(candidate, turns))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(raw), nil
}

// Advise answers a free-form career question about a resume and job
// description. Empty model output becomes FallbackAdvice.
func (s *Service) Advise(ctx context.Context, resume, jobDescription, message string) (string, error) {
	if strings.TrimSpace(message) == "" {
		return "", common.NewAppError(common.CodeInput, "message is required", common.ErrInvalidInput)
	}
	raw, err := s.generate(ctx, "advise", llm.BuildCareerPrompt(resume, jobDescription, message))
	if err != nil {
		return "", err
	}
	if out := strings.TrimSpace(raw); out != "" {
		return out, nil
	}
	return FallbackAdvice, nil
}

func (s *Service) generate(ctx context.Context, op, prompt string) (string, error) {
	if s.gen == nil {
		return "", common.NewAppError(common.CodeConfig, "no generator configured", common.ErrConfig)
	}
	raw, err := s.gen.Generate(ctx, prompt)
	if err != nil {
		s.logger.Error("interview.generate.failed",
			"req_id", common.RequestIDFromContext(ctx),
			"op", op,
			"err", err,
		)
		if common.CodeOf(err) != "" {
			return "", err
		}
		return "", common.NewAppError(common.CodeGeneration, op+": generate", errors.Join(common.ErrGeneration, err))
	}
	return raw, nil
}

// askedPart returns the last line containing a question mark, or the whole
// text. Generated follow-ups open with a comment on the previous answer.
func askedPart(text string) string {
	lines := strings.Split(text, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if strings.Contains(lines[i], "?") {
			ln := lines[i]
			if j := strings.LastIndexAny(ln[:strings.LastIndex(ln, "?")], ".!"); j >= 0 {
				ln = ln[j+1:]
			}
			return ln
		}
	}
	return text
}
