package common

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Log     LogConfig
	OCR     OCRConfig
	LLM     LLMConfig
	Scoring ScoringConfig
	Batch   BatchConfig
}

// LogConfig holds logger settings
type LogConfig struct {
	Level  string // debug | info | warn | error
	Format string // text | json
}

// OCRConfig holds OCR-related configuration
type OCRConfig struct {
	Pdftoppm      string
	Tesseract     string
	TesseractLang string
	TessdataDir   string
	DPI           int
	MaxPages      int
	PSM           int
	OEM           int
	TempDir       string

	// DisableTextLayer sends every PDF page through OCR even when it has selectable text.
	DisableTextLayer bool
}

// LLMConfig holds generative-text configuration
type LLMConfig struct {
	Model         string
	APIKey        string
	Timeout       time.Duration
	MaxSentences  int
	QuestionCount int
	MaxReprompts  int

	// MaxAttempts bounds retries of transient generator failures.
	MaxAttempts       int
	Temperature       float64
	// RequestsPerMinute caps generator calls; 0 disables the limit.
	RequestsPerMinute int
}

// ScoringConfig holds keyphrase and similarity settings
type ScoringConfig struct {
	EmbeddingDim int
	TopN         int
	Diversity    float64
}

// BatchConfig holds worker settings for directory analysis
type BatchConfig struct {
	Workers        int
	QueueSize      int
	ProcessTimeout time.Duration
}

const envPrefix = "CAREERMATE"

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("ocr.pdftoppm", "pdftoppm")
	v.SetDefault("ocr.tesseract", "tesseract")
	v.SetDefault("ocr.tesseract_lang", "eng")
	v.SetDefault("ocr.tessdata_dir", "")
	v.SetDefault("ocr.dpi", 300)
	v.SetDefault("ocr.max_pages", 0)
	v.SetDefault("ocr.psm", 0)
	v.SetDefault("ocr.oem", 0)
	v.SetDefault("ocr.temp_dir", "")
	v.SetDefault("ocr.disable_text_layer", false)

	v.SetDefault("llm.model", "gemini-1.5-flash")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.timeout", 45*time.Second)
	v.SetDefault("llm.max_sentences", 3)
	v.SetDefault("llm.question_count", 6)
	v.SetDefault("llm.max_reprompts", 2)
	v.SetDefault("llm.max_attempts", 3)
	v.SetDefault("llm.temperature", 0.7)
	v.SetDefault("llm.requests_per_minute", 15)

	v.SetDefault("scoring.embedding_dim", 512)
	v.SetDefault("scoring.top_n", 100)
	v.SetDefault("scoring.diversity", 0.3)

	v.SetDefault("batch.workers", 4)
	v.SetDefault("batch.queue_size", 256)
	v.SetDefault("batch.process_timeout", 3*time.Minute)
}

// NewViper returns a viper instance with defaults and environment binding.
// Keys map to CAREERMATE_<SECTION>_<KEY>; a few well-known variables are
// honoured as-is.
func NewViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	_ = v.BindEnv("ocr.tessdata_dir", envPrefix+"_OCR_TESSDATA_DIR", "TESSDATA_PREFIX")
	_ = v.BindEnv("llm.api_key", envPrefix+"_LLM_API_KEY", "GEMINI_API_KEY", "API_KEY")
	_ = v.BindEnv("llm.model", envPrefix+"_LLM_MODEL", "GEMINI_MODEL")
	return v
}

// LoadConfig reads an optional config file and returns the resolved configuration.
func LoadConfig(v *viper.Viper, file string) (*Config, error) {
	if v == nil {
		v = NewViper()
	}
	if strings.TrimSpace(file) != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, NewAppError(CodeConfig, fmt.Sprintf("read config %q", file), err)
			}
		}
	}

	cfg := &Config{
		Log: LogConfig{
			Level:  strings.ToLower(v.GetString("log.level")),
			Format: strings.ToLower(v.GetString("log.format")),
		},
		OCR: OCRConfig{
			Pdftoppm:      v.GetString("ocr.pdftoppm"),
			Tesseract:     v.GetString("ocr.tesseract"),
			TesseractLang: v.GetString("ocr.tesseract_lang"),
			TessdataDir:   v.GetString("ocr.tessdata_dir"),
			DPI:           v.GetInt("ocr.dpi"),
			MaxPages:      v.GetInt("ocr.max_pages"),
			PSM:           v.GetInt("ocr.psm"),
			OEM:           v.GetInt("ocr.oem"),
			TempDir:       v.GetString("ocr.temp_dir"),

			DisableTextLayer: v.GetBool("ocr.disable_text_layer"),
		},
		LLM: LLMConfig{
			Model:         v.GetString("llm.model"),
			APIKey:        v.GetString("llm.api_key"),
			Timeout:       v.GetDuration("llm.timeout"),
			MaxSentences:  v.GetInt("llm.max_sentences"),
			QuestionCount: v.GetInt("llm.question_count"),
			MaxReprompts:  v.GetInt("llm.max_reprompts"),

			MaxAttempts:       v.GetInt("llm.max_attempts"),
			Temperature:       v.GetFloat64("llm.temperature"),
			RequestsPerMinute: v.GetInt("llm.requests_per_minute"),
		},
		Scoring: ScoringConfig{
			EmbeddingDim: v.GetInt("scoring.embedding_dim"),
			TopN:         v.GetInt("scoring.top_n"),
			Diversity:    v.GetFloat64("scoring.diversity"),
		},
		Batch: BatchConfig{
			Workers:        v.GetInt("batch.workers"),
			QueueSize:      v.GetInt("batch.queue_size"),
			ProcessTimeout: v.GetDuration("batch.process_timeout"),
		},
	}
	if err := cfg.Validate(); err != nil {
		return nil, NewAppError(CodeConfig, "invalid configuration", err)
	}
	return cfg, nil
}

// Validate checks settings every command depends on.
func (c *Config) Validate() error {
	v := NewValidator()
	v.Field("log.level", c.Log.Level, OneOf("debug", "info", "warn", "error"))
	v.Field("log.format", c.Log.Format, OneOf("text", "json"))
	v.Field("ocr.tesseract", c.OCR.Tesseract, Required)
	v.Field("ocr.pdftoppm", c.OCR.Pdftoppm, Required)
	v.Field("ocr.dpi", c.OCR.DPI, InRange(72, 1200))
	v.Field("llm.max_sentences", c.LLM.MaxSentences, Positive)
	v.Field("llm.question_count", c.LLM.QuestionCount, Positive)
	v.Field("llm.max_attempts", c.LLM.MaxAttempts, InRange(1, 10))
	v.Field("llm.temperature", c.LLM.Temperature, InRange(0, 2))
	v.Field("llm.requests_per_minute", c.LLM.RequestsPerMinute, InRange(0, 10000))
	v.Field("scoring.embedding_dim", c.Scoring.EmbeddingDim, InRange(16, 8192))
	v.Field("scoring.top_n", c.Scoring.TopN, Positive)
	v.Field("scoring.diversity", c.Scoring.Diversity, InRange(0, 1))
	v.Field("batch.workers", c.Batch.Workers, Positive)
	return v.Error()
}

// ValidateLLM checks settings needed only by commands that call the generator.
func (c *Config) ValidateLLM() error {
	if strings.TrimSpace(c.LLM.APIKey) == "" {
		return NewAppError(CodeConfig, "llm api key is required (GEMINI_API_KEY)", ErrConfig)
	}
	return nil
}
