package resume

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/careermate/constants"
	"github.com/joseph-ayodele/careermate/internal/common"
	"github.com/joseph-ayodele/careermate/internal/nlp"
	"github.com/joseph-ayodele/careermate/internal/ocr"
	"github.com/joseph-ayodele/careermate/internal/relevance"
)

const sampleResume = `Jane Doe
jane.doe@example.com | +1 (555) 123-4567
linkedin.com/in/jane-doe | github.com/janedoe

Summary
Backend engineer building distributed payment services in Go.

Experience
Acme Corp, Senior Engineer 2018 - 2021
Globex, Staff Engineer 2021 - present
Kubernetes, Kafka and PostgreSQL in production since Jan 2019.

Education
BSc Computer Science 2012 - 2016

Skills
Go, Kubernetes, Kafka, PostgreSQL`

const sampleJD = `We are hiring a backend engineer to build distributed payment services in Go
on Kubernetes, with Kafka and PostgreSQL experience.`

type fixedTagger struct{ ents []nlp.Entity }

func (f fixedTagger) Entities(string) []nlp.Entity { return f.ents }

type stubRecoverer struct{ res ocr.Result }

func (s stubRecoverer) Recover(context.Context, []byte) ocr.Result { return s.res }

func newTestAnalyzer(rec TextRecoverer, ents ...nlp.Entity) *Analyzer {
	norm := nlp.NewNormalizer(nil, fixedTagger{ents: ents})
	scorer := relevance.NewScorer(norm, relevance.NewHashingEmbedder(relevance.DefaultDim), nil)
	clock := func() time.Time { return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC) }
	return NewAnalyzer(rec, norm, scorer, nil, WithClock(clock))
}

func TestExtractSections(t *testing.T) {
	got := ExtractSections(sampleResume)

	assert.Contains(t, got[GeneralSection], "Jane Doe")
	assert.Contains(t, got["summary"], "distributed payment services")
	assert.Contains(t, got["experience"], "Acme Corp")
	assert.Contains(t, got["education"], "BSc Computer Science")
	assert.Equal(t, "Go, Kubernetes, Kafka, PostgreSQL", got["skills"])
	assert.NotContains(t, got, "projects")
}

func TestExtractSections_LongLinesAreNotHeaders(t *testing.T) {
	text := "Experience\nI gained professional experience working across many teams and several industries"
	got := ExtractSections(text)
	require.Contains(t, got, "experience")
	assert.Contains(t, got["experience"], "professional experience")
	assert.Len(t, got, 1)
}

func TestExtractSections_Empty(t *testing.T) {
	assert.Empty(t, ExtractSections(""))
	assert.Empty(t, ExtractSections("\n  \n"))
}

func TestExtractContactInfo(t *testing.T) {
	got := ExtractContactInfo(sampleResume)
	assert.Equal(t, "jane.doe@example.com", got.Email)
	assert.Contains(t, got.Phone, "555")
	assert.Contains(t, got.Phone, "4567")
	assert.Equal(t, "linkedin.com/in/jane-doe", got.LinkedIn)
	assert.Equal(t, "github.com/janedoe", got.GitHub)

	assert.Equal(t, ContactInfo{}, ExtractContactInfo("no contact details here"))
}

func TestExtractDates(t *testing.T) {
	got := ExtractDates("Started 03/15/2019. Worked 2018 - 2021 and 2021 – Present. Joined Jan 2019.")
	assert.Contains(t, got, "03/15/2019")
	assert.Contains(t, got, "2018 - 2021")
	assert.Contains(t, got, "2021 – Present")
	assert.Contains(t, got, "Jan 2019")
}

func TestExperienceYears(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		name string
		text string
		want int
	}{
		{"closed range", "2018 - 2021", 3},
		{"present", "2020 - present", 4},
		{"current upper case", "2022-Current", 2},
		{"sum", "2010 - 2012, 2015 - 2020", 7},
		{"reversed ignored", "2021 - 2018", 0},
		{"capped", "1980 - 2020", MaxExperienceYears},
		{"none", "no dates", 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ExperienceYears(tc.text, now))
		})
	}
}

func TestAnalyzeText(t *testing.T) {
	a := newTestAnalyzer(nil, nlp.Entity{Text: "Acme Corp", Label: "ORG"}, nlp.Entity{Text: "Jane  Doe", Label: "PERSON"})
	ctx := common.WithDocument(context.Background(), "jane.txt")

	got := a.AnalyzeText(ctx, sampleResume, sampleJD)

	assert.Equal(t, "jane.txt", got.Source)
	assert.Equal(t, "Jane Doe", got.Candidate)
	assert.Equal(t, constants.MethodPlainText, got.Method)
	assert.Greater(t, got.MatchScore, 0.0)
	assert.LessOrEqual(t, got.MatchScore, 100.0)
	assert.NotEmpty(t, got.Keyphrases)
	assert.Contains(t, got.MatchedKeywords, "kubernetes")
	assert.Contains(t, got.MissingKeywords, "hiring")
	assert.Equal(t, "jane.doe@example.com", got.Contact.Email)
	// 2018-2021, 2021-2024 and 2012-2016
	assert.Equal(t, 10, got.ExperienceYears)
	assert.Empty(t, got.Warnings)
}

func TestAnalyzeText_NoJobDescription(t *testing.T) {
	a := newTestAnalyzer(nil)
	got := a.AnalyzeText(context.Background(), sampleResume, "  ")

	assert.Zero(t, got.MatchScore)
	assert.Empty(t, got.Candidate)
	assert.Nil(t, got.MatchedKeywords)
	assert.NotEmpty(t, got.Warnings)
	assert.NotEmpty(t, got.Keyphrases)
}

func TestAnalyze_UsesRecoveredText(t *testing.T) {
	rec := stubRecoverer{res: ocr.Result{
		Text:       sampleResume,
		Pages:      2,
		Method:     constants.MethodPDFMixed,
		Confidence: 0.8,
		Warnings:   []string{"page 2 recognised by OCR"},
	}}
	a := newTestAnalyzer(rec)

	got := a.Analyze(context.Background(), []byte("%PDF-1.4"), sampleJD)

	assert.Equal(t, constants.MethodPDFMixed, got.Method)
	assert.Equal(t, 2, got.Pages)
	assert.InDelta(t, 0.8, got.OCRConfidence, 1e-6)
	assert.Equal(t, []string{"page 2 recognised by OCR"}, got.Warnings)
	assert.Greater(t, got.MatchScore, 0.0)
}

func TestAnalyze_NoText(t *testing.T) {
	rec := stubRecoverer{res: ocr.Result{Method: constants.MethodFailed}}
	a := newTestAnalyzer(rec)

	got := a.Analyze(context.Background(), []byte{0x00}, sampleJD)

	assert.Equal(t, constants.MethodFailed, got.Method)
	assert.Zero(t, got.MatchScore)
	assert.Empty(t, got.Keyphrases)
	assert.Len(t, got.Warnings, 1)
}
