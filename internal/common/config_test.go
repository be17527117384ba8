package common

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(NewViper(), "")
	require.NoError(t, err)

	assert.Equal(t, "tesseract", cfg.OCR.Tesseract)
	assert.Equal(t, 300, cfg.OCR.DPI)
	assert.Equal(t, 45*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, 6, cfg.LLM.QuestionCount)
	assert.Equal(t, 3, cfg.LLM.MaxAttempts)
	assert.Equal(t, 15, cfg.LLM.RequestsPerMinute)
	assert.InDelta(t, 0.7, cfg.LLM.Temperature, 1e-9)
	assert.False(t, cfg.OCR.DisableTextLayer)
	assert.InDelta(t, 0.3, cfg.Scoring.Diversity, 1e-9)
	assert.Equal(t, 512, cfg.Scoring.EmbeddingDim)
	assert.Equal(t, 4, cfg.Batch.Workers)
}

func TestLoadConfig_EnvAndFile(t *testing.T) {
	t.Setenv("CAREERMATE_OCR_DPI", "200")
	t.Setenv("GEMINI_API_KEY", "secret")
	t.Setenv("TESSDATA_PREFIX", "/opt/tessdata")
	t.Setenv("CAREERMATE_LLM_REQUESTS_PER_MINUTE", "30")

	path := filepath.Join(t.TempDir(), "careermate.yaml")
	require.NoError(t, os.WriteFile(path, []byte("scoring:\n  top_n: 20\nbatch:\n  workers: 2\nllm:\n  max_attempts: 5\n  temperature: 0.2\nocr:\n  disable_text_layer: true\n"), 0o644))

	cfg, err := LoadConfig(NewViper(), path)
	require.NoError(t, err)

	assert.Equal(t, 200, cfg.OCR.DPI)
	assert.Equal(t, "/opt/tessdata", cfg.OCR.TessdataDir)
	assert.Equal(t, "secret", cfg.LLM.APIKey)
	assert.Equal(t, 20, cfg.Scoring.TopN)
	assert.Equal(t, 2, cfg.Batch.Workers)
	assert.Equal(t, 30, cfg.LLM.RequestsPerMinute)
	assert.Equal(t, 5, cfg.LLM.MaxAttempts)
	assert.InDelta(t, 0.2, cfg.LLM.Temperature, 1e-9)
	assert.True(t, cfg.OCR.DisableTextLayer)
	assert.NoError(t, cfg.ValidateLLM())
}

func TestLoadConfig_Invalid(t *testing.T) {
	v := NewViper()
	v.Set("scoring.diversity", 1.5)
	v.Set("log.format", "xml")
	v.Set("llm.temperature", 3.5)
	v.Set("llm.max_attempts", 0)
	v.Set("llm.requests_per_minute", -1)

	_, err := LoadConfig(v, "")
	require.Error(t, err)
	assert.Equal(t, CodeConfig, CodeOf(err))
	assert.Contains(t, err.Error(), "scoring.diversity")
	assert.Contains(t, err.Error(), "log.format")
	assert.Contains(t, err.Error(), "llm.temperature")
	assert.Contains(t, err.Error(), "llm.max_attempts")
	assert.Contains(t, err.Error(), "llm.requests_per_minute")
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(NewViper(), filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidateLLM(t *testing.T) {
	cfg := &Config{}
	err := cfg.ValidateLLM()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConfig)
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger(&buf, LogConfig{Level: "warn", Format: "json"})
	l.Info("hidden")
	l.Warn("ocr.recover.no_text", "pages", 2)

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"ocr.recover.no_text"`)
}
