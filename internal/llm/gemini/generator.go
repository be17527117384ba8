// Package gemini adapts the Google GenAI client to llm.Generator.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"github.com/joseph-ayodele/careermate/internal/common"
)

const (
	defaultModel       = "gemini-1.5-flash"
	defaultTimeout     = 45 * time.Second
	defaultMaxAttempts = 3
)

// sleep is swapped out in tests.
var sleep = func(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// contentAPI is the slice of genai.Models we use.
type contentAPI interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type Config struct {
	APIKey      string
	Model       string
	Timeout     time.Duration
	MaxAttempts int
	Temperature *float32
	// RequestsPerMinute caps outgoing calls; 0 means unlimited.
	RequestsPerMinute int
}

// ConfigFrom maps the application's llm settings onto a generator Config.
func ConfigFrom(c common.LLMConfig) Config {
	temp := float32(c.Temperature)
	return Config{
		APIKey:            c.APIKey,
		Model:             c.Model,
		Timeout:           c.Timeout,
		MaxAttempts:       c.MaxAttempts,
		Temperature:       &temp,
		RequestsPerMinute: c.RequestsPerMinute,
	}
}

// Generator implements llm.Generator on the Gemini API backend.
type Generator struct {
	models  contentAPI
	cfg     Config
	breaker *gobreaker.CircuitBreaker[*genai.GenerateContentResponse]
	limiter *rate.Limiter
	logger  *slog.Logger
}

// NewGenerator creates a Generator configured for the Gemini API backend.
func NewGenerator(ctx context.Context, cfg Config, logger *slog.Logger) (*Generator, error) {
	cfg.APIKey = strings.TrimSpace(cfg.APIKey)
	if cfg.APIKey == "" {
		return nil, common.NewAppError(common.CodeConfig, "gemini api key is required", common.ErrConfig)
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return newGenerator(client.Models, cfg, logger), nil
}

func newGenerator(models contentAPI, cfg Config, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Model = strings.TrimSpace(cfg.Model); cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = defaultMaxAttempts
	}
	g := &Generator{models: models, cfg: cfg, logger: logger, limiter: rate.NewLimiter(rate.Inf, 1)}
	if cfg.RequestsPerMinute > 0 {
		g.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.RequestsPerMinute)), 1)
	}
	g.breaker = gobreaker.NewCircuitBreaker[*genai.GenerateContentResponse](gobreaker.Settings{
		Name:    "gemini-" + cfg.Model,
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("llm.gemini.breaker", "name", name, "from", from.String(), "to", to.String())
		},
	})
	return g
}

func (g *Generator) Model() string {
	if g == nil {
		return ""
	}
	return g.cfg.Model
}

// Generate sends the prompt and returns the joined text of all candidates.
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	if g == nil || g.models == nil {
		return "", errors.New("gemini generator is not initialized")
	}
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", common.NewAppError(common.CodeInput, "prompt must not be empty", common.ErrInvalidInput)
	}

	rid := common.RequestIDFromContext(ctx)
	if rid == "" {
		rid = uuid.New().String()
	}
	start := time.Now()
	g.logger.Info("llm.gemini.request", "req_id", rid, "model", g.cfg.Model, "prompt_len", len(prompt))

	var config *genai.GenerateContentConfig
	if g.cfg.Temperature != nil {
		config = &genai.GenerateContentConfig{Temperature: g.cfg.Temperature}
	}

	resp, err := g.breaker.Execute(func() (*genai.GenerateContentResponse, error) {
		return g.withRetry(ctx, rid, func(ctx context.Context) (*genai.GenerateContentResponse, error) {
			return g.models.GenerateContent(ctx, g.cfg.Model, genai.Text(prompt), config)
		})
	})
	if err != nil {
		g.logger.Error("llm.gemini.error", "req_id", rid, "error", err, "elapsed_ms", time.Since(start).Milliseconds())
		return "", common.NewAppError(common.CodeGeneration, "generate content", errors.Join(common.ErrGeneration, err))
	}

	output := joinCandidates(resp)
	g.logger.Info("llm.gemini.response", "req_id", rid, "chars", len(output), "elapsed_ms", time.Since(start).Milliseconds())
	if output == "" {
		return "", common.NewAppError(common.CodeGeneration, "gemini api returned empty response", common.ErrGeneration)
	}
	return output, nil
}

func (g *Generator) withRetry(ctx context.Context, rid string, fn func(context.Context) (*genai.GenerateContentResponse, error)) (*genai.GenerateContentResponse, error) {
	var lastErr error
	for attempt := 1; attempt <= g.cfg.MaxAttempts; attempt++ {
		if attempt > 1 {
			backoff := time.Duration(1<<(attempt-2)) * time.Second
			g.logger.Warn("llm.gemini.retry", "req_id", rid, "attempt", attempt, "backoff_ms", backoff.Milliseconds(), "error", lastErr)
			if err := sleep(ctx, backoff); err != nil {
				return nil, err
			}
		}
		if err := g.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		callCtx, cancel := context.WithTimeout(ctx, g.cfg.Timeout)
		resp, err := fn(callCtx)
		cancel()
		if err == nil {
			return resp, nil
		}
		lastErr = err
		if !retryable(err) {
			break
		}
	}
	return nil, lastErr
}

func retryable(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			return true
		}
	}
	return false
}

func joinCandidates(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			text := strings.TrimSpace(part.Text)
			if text == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteString("\n")
			}
			builder.WriteString(text)
		}
	}
	return strings.TrimSpace(builder.String())
}
