package gemini

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"github.com/joseph-ayodele/careermate/internal/common"
)

type fakeResult struct {
	resp *genai.GenerateContentResponse
	err  error
}

type fakeModels struct {
	mu      sync.Mutex
	queue   []fakeResult
	prompts []string
	models  []string
}

func (f *fakeModels) GenerateContent(_ context.Context, model string, contents []*genai.Content, _ *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.models = append(f.models, model)
	for _, c := range contents {
		for _, p := range c.Parts {
			f.prompts = append(f.prompts, p.Text)
		}
	}
	if len(f.queue) == 0 {
		return nil, errors.New("unexpected call")
	}
	res := f.queue[0]
	f.queue = f.queue[1:]
	return res.resp, res.err
}

func textResponse(parts ...string) *genai.GenerateContentResponse {
	ps := make([]*genai.Part, 0, len(parts))
	for _, p := range parts {
		ps = append(ps, &genai.Part{Text: p})
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: &genai.Content{Parts: ps}}},
	}
}

func noSleep(t *testing.T) {
	t.Helper()
	orig := sleep
	sleep = func(context.Context, time.Duration) error { return nil }
	t.Cleanup(func() { sleep = orig })
}

func TestGenerate_JoinsParts(t *testing.T) {
	fm := &fakeModels{queue: []fakeResult{{resp: textResponse(" first ", "", "second")}}}
	g := newGenerator(fm, Config{}, nil)

	out, err := g.Generate(context.Background(), "  hello ")

	require.NoError(t, err)
	assert.Equal(t, "first\nsecond", out)
	assert.Equal(t, []string{"hello"}, fm.prompts)
	assert.Equal(t, []string{defaultModel}, fm.models)
	assert.Equal(t, defaultModel, g.Model())
}

func TestGenerate_RetriesOnTemporaryError(t *testing.T) {
	noSleep(t)
	fm := &fakeModels{queue: []fakeResult{
		{err: genai.APIError{Code: http.StatusServiceUnavailable, Status: "UNAVAILABLE"}},
		{resp: textResponse("retry ok")},
	}}
	g := newGenerator(fm, Config{Model: "gemini-pro"}, nil)

	out, err := g.Generate(context.Background(), "prompt")

	require.NoError(t, err)
	assert.Equal(t, "retry ok", out)
	assert.Len(t, fm.models, 2)
}

func TestGenerate_NoRetryOnClientError(t *testing.T) {
	noSleep(t)
	fm := &fakeModels{queue: []fakeResult{
		{err: genai.APIError{Code: http.StatusBadRequest, Status: "INVALID_ARGUMENT"}},
		{resp: textResponse("unused")},
	}}
	g := newGenerator(fm, Config{}, nil)

	_, err := g.Generate(context.Background(), "prompt")

	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrGeneration)
	assert.Equal(t, common.CodeGeneration, common.CodeOf(err))
	assert.Len(t, fm.models, 1)
}

func TestGenerate_EmptyOutputIsError(t *testing.T) {
	fm := &fakeModels{queue: []fakeResult{{resp: textResponse("   ")}}}
	g := newGenerator(fm, Config{}, nil)

	_, err := g.Generate(context.Background(), "prompt")
	assert.ErrorIs(t, err, common.ErrGeneration)
}

func TestGenerate_EmptyPrompt(t *testing.T) {
	fm := &fakeModels{}
	g := newGenerator(fm, Config{}, nil)

	_, err := g.Generate(context.Background(), "  ")
	assert.ErrorIs(t, err, common.ErrInvalidInput)
	assert.Empty(t, fm.models)
}

func TestNewGenerator_RequiresKey(t *testing.T) {
	_, err := NewGenerator(context.Background(), Config{APIKey: " "}, nil)
	assert.ErrorIs(t, err, common.ErrConfig)
}

func TestRetryable(t *testing.T) {
	assert.True(t, retryable(genai.APIError{Code: http.StatusTooManyRequests}))
	assert.True(t, retryable(context.DeadlineExceeded))
	assert.False(t, retryable(genai.APIError{Code: http.StatusUnauthorized}))
	assert.False(t, retryable(errors.New("boom")))
}

func TestGenerate_RateLimitedCallsStillComplete(t *testing.T) {
	fm := &fakeModels{queue: []fakeResult{{resp: textResponse("a")}, {resp: textResponse("b")}}}
	g := newGenerator(fm, Config{RequestsPerMinute: 6000}, nil)

	for _, want := range []string{"a", "b"} {
		out, err := g.Generate(context.Background(), "p")
		require.NoError(t, err)
		assert.Equal(t, want, out)
	}
}

func TestConfigFrom_CarriesLimits(t *testing.T) {
	cfg := ConfigFrom(common.LLMConfig{
		APIKey:            "k",
		Model:             "gemini-2.0-flash",
		Timeout:           10 * time.Second,
		MaxAttempts:       5,
		Temperature:       0.25,
		RequestsPerMinute: 15,
	})

	assert.Equal(t, "gemini-2.0-flash", cfg.Model)
	assert.Equal(t, 5, cfg.MaxAttempts)
	require.NotNil(t, cfg.Temperature)
	assert.InDelta(t, 0.25, *cfg.Temperature, 1e-6)

	g := newGenerator(&fakeModels{}, cfg, nil)
	assert.Equal(t, rate.Every(4*time.Second), g.limiter.Limit())
	assert.Equal(t, 1, g.limiter.Burst())
	assert.Equal(t, 5, g.cfg.MaxAttempts)
}

func TestNewGenerator_NoRateLimitByDefault(t *testing.T) {
	g := newGenerator(&fakeModels{}, Config{}, nil)
	assert.Equal(t, rate.Inf, g.limiter.Limit())
}
