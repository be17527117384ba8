// Package resume analyses resumes against job descriptions: recovered text,
// candidate identity, keyphrases, match score and layout signals.
package resume

import (
	"context"
	"log/slog"
	"strings"
	"time"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/joseph-ayodele/careermate/constants"
	"github.com/joseph-ayodele/careermate/internal/common"
	"github.com/joseph-ayodele/careermate/internal/nlp"
	"github.com/joseph-ayodele/careermate/internal/ocr"
	"github.com/joseph-ayodele/careermate/internal/relevance"
)

// TextRecoverer turns document bytes into text. *ocr.Extractor implements it.
type TextRecoverer interface {
	Recover(ctx context.Context, data []byte) ocr.Result
}

// Analysis is the outcome of analysing one resume.
type Analysis struct {
	Source          string                   `json:"source,omitempty"`
	Candidate       string                   `json:"candidate,omitempty"`
	Method          constants.RecoveryMethod `json:"method"`
	Pages           int                      `json:"pages"`
	OCRConfidence   float32                  `json:"ocrConfidence"`
	MatchScore      float64                  `json:"matchScore"`
	Keyphrases      []relevance.Keyphrase    `json:"keyphrases"`
	MatchedKeywords []string                 `json:"matchedKeywords"`
	MissingKeywords []string                 `json:"missingKeywords"`
	Sections        map[string]string        `json:"sections,omitempty"`
	Contact         ContactInfo              `json:"contact"`
	Dates           []string                 `json:"dates,omitempty"`
	ExperienceYears int                      `json:"experienceYears"`
	Warnings        []string                 `json:"warnings,omitempty"`
	Duration        time.Duration            `json:"durationNs"`
	Text            string                   `json:"-"`
}

const (
	defaultResumeKeyphrases = 25
	defaultJDKeyphrases     = 30
)

type Analyzer struct {
	ocr    TextRecoverer
	norm   *nlp.Normalizer
	scorer *relevance.Scorer
	logger *slog.Logger

	resumeTopN int
	jdTopN     int
	now        func() time.Time
}

type Option func(*Analyzer)

// WithKeyphraseLimits sets how many keyphrases are kept from the resume and
// the job description.
func WithKeyphraseLimits(resume, jd int) Option {
	return func(a *Analyzer) {
		if resume > 0 {
			a.resumeTopN = resume
		}
		if jd > 0 {
			a.jdTopN = jd
		}
	}
}

// WithClock overrides the time source used for "present" ranges.
func WithClock(now func() time.Time) Option {
	return func(a *Analyzer) {
		if now != nil {
			a.now = now
		}
	}
}

func NewAnalyzer(rec TextRecoverer, norm *nlp.Normalizer, scorer *relevance.Scorer, logger *slog.Logger, opts ...Option) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	a := &Analyzer{
		ocr:        rec,
		norm:       norm,
		scorer:     scorer,
		logger:     logger,
		resumeTopN: defaultResumeKeyphrases,
		jdTopN:     defaultJDKeyphrases,
		now:        time.Now,
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

// Analyze recovers text from a resume document and scores it against
// jobDescription. It never fails; a document with no recoverable text gives
// a zero Analysis carrying a warning.
func (a *Analyzer) Analyze(ctx context.Context, data []byte, jobDescription string) Analysis {
	start := time.Now()
	res := a.ocr.Recover(ctx, data)
	if res.Text == "" {
		out := Analysis{
			Source:   common.DocumentFromContext(ctx),
			Method:   res.Method,
			Pages:    res.Pages,
			Warnings: append(res.Warnings, "no text recovered from document"),
			Duration: time.Since(start),
		}
		a.logger.Warn("resume.analyze.empty", "req_id", common.RequestIDFromContext(ctx), "source", out.Source)
		return out
	}
	out := a.AnalyzeText(ctx, res.Text, jobDescription)
	out.Method = res.Method
	out.Pages = res.Pages
	out.OCRConfidence = res.Confidence
	out.Warnings = append(res.Warnings, out.Warnings...)
	out.Duration = time.Since(start)
	return out
}

// AnalyzeText runs the analysis on already extracted resume text.
func (a *Analyzer) AnalyzeText(ctx context.Context, text, jobDescription string) Analysis {
	start := time.Now()
	out := Analysis{
		Source:   common.DocumentFromContext(ctx),
		Method:   constants.MethodPlainText,
		Text:     text,
		Sections: ExtractSections(text),
		Contact:  ExtractContactInfo(text),
		Dates:    ExtractDates(text),
	}
	out.ExperienceYears = ExperienceYears(text, a.now())

	if strings.TrimSpace(text) == "" {
		out.Method = constants.MethodFailed
		out.Warnings = append(out.Warnings, "empty resume text")
		return out
	}

	if name, ok := a.norm.ExtractIdentity(text); ok {
		out.Candidate = name
	}
	out.Keyphrases = a.scorer.ExtractKeyphrases(text, a.resumeTopN)

	if strings.TrimSpace(jobDescription) == "" {
		out.Warnings = append(out.Warnings, "no job description; match score skipped")
	} else {
		out.MatchScore = a.scorer.MatchScore(text, jobDescription)
		out.MatchedKeywords, out.MissingKeywords = a.keywordOverlap(text, jobDescription)
	}
	out.Duration = time.Since(start)

	a.logger.Info("resume.analyze.ok",
		"req_id", common.RequestIDFromContext(ctx),
		"source", out.Source,
		"candidate_found", out.Candidate != "",
		"match_score", out.MatchScore,
		"keyphrases", len(out.Keyphrases),
		"missing", len(out.MissingKeywords),
		"duration_ms", out.Duration.Milliseconds(),
	)
	return out
}

// keywordOverlap splits the job description's keyphrases into those whose
// every lemma appears in the resume and those that do not.
func (a *Analyzer) keywordOverlap(resumeText, jobDescription string) (matched, missing []string) {
	have := mapset.NewThreadUnsafeSet(a.norm.Normalize(resumeText).Tokens...)
	matched, missing = []string{}, []string{}
	for _, kp := range a.scorer.ExtractKeyphrases(jobDescription, a.jdTopN) {
		if have.Contains(strings.Fields(kp.Phrase)...) {
			matched = append(matched, kp.Phrase)
		} else {
			missing = append(missing, kp.Phrase)
		}
	}
	return matched, missing
}
