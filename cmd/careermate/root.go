package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/joseph-ayodele/careermate/constants"
	"github.com/joseph-ayodele/careermate/internal/common"
	"github.com/joseph-ayodele/careermate/internal/interview"
	"github.com/joseph-ayodele/careermate/internal/llm"
	"github.com/joseph-ayodele/careermate/internal/llm/gemini"
	"github.com/joseph-ayodele/careermate/internal/nlp"
	"github.com/joseph-ayodele/careermate/internal/ocr"
	"github.com/joseph-ayodele/careermate/internal/relevance"
	"github.com/joseph-ayodele/careermate/internal/resume"
)

const app = "careermate"

// maxInputBytes bounds documents read from disk.
const maxInputBytes = 32 << 20

// cli carries state shared by all subcommands once the root pre-run has
// resolved configuration.
type cli struct {
	v       *viper.Viper
	cfgFile string

	cfg    *common.Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{v: common.NewViper()}

	root := &cobra.Command{
		Use:   app,
		Short: "Resume analysis and mock interviews",
		Long: `careermate recovers text from resumes (PDF, scans, images), scores them
against job descriptions and runs interview practice on top of a Gemini model.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := common.LoadConfig(c.v, c.cfgFile)
			if err != nil {
				return err
			}
			c.cfg = cfg
			c.logger = common.NewLogger(cfg.Log)
			slog.SetDefault(c.logger)
			ctx, _ := common.EnsureRequestID(cmd.Context())
			cmd.SetContext(ctx)
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&c.cfgFile, "config", "", "config file (yaml, json or toml)")
	flags.String("log-level", "", "log level: debug, info, warn, error")
	flags.String("log-format", "", "log format: text or json")
	_ = c.v.BindPFlag("log.level", flags.Lookup("log-level"))
	_ = c.v.BindPFlag("log.format", flags.Lookup("log-format"))

	root.AddCommand(
		c.newOCRCmd(),
		c.newAnalyzeCmd(),
		c.newKeywordsCmd(),
		c.newEvaluateCmd(),
		c.newQuestionsCmd(),
		c.newInterviewCmd(),
		c.newCoachCmd(),
		c.newBatchCmd(),
		c.newWatchCmd(),
	)
	return root
}

func (c *cli) extractor() *ocr.Extractor {
	return ocr.NewExtractor(ocr.ConfigFrom(c.cfg.OCR), c.logger)
}

func (c *cli) scorer() (*relevance.Scorer, error) {
	norm, err := nlp.Default()
	if err != nil {
		return nil, common.NewAppError(common.CodeConfig, "load language model", err)
	}
	return relevance.NewScorer(norm,
		relevance.NewHashingEmbedder(c.cfg.Scoring.EmbeddingDim),
		c.logger,
		relevance.WithDiversity(c.cfg.Scoring.Diversity),
	), nil
}

func (c *cli) analyzer() (*resume.Analyzer, error) {
	norm, err := nlp.Default()
	if err != nil {
		return nil, common.NewAppError(common.CodeConfig, "load language model", err)
	}
	sc, err := c.scorer()
	if err != nil {
		return nil, err
	}
	return resume.NewAnalyzer(c.extractor(), norm, sc, c.logger), nil
}

func (c *cli) interviewService(ctx context.Context) (*interview.Service, error) {
	if err := c.cfg.ValidateLLM(); err != nil {
		return nil, err
	}
	gen, err := gemini.NewGenerator(ctx, gemini.ConfigFrom(c.cfg.LLM), c.logger)
	if err != nil {
		return nil, err
	}
	rec := llm.NewRecoverer(c.logger, llm.WithMaxSentences(c.cfg.LLM.MaxSentences))
	return interview.NewService(gen, rec, c.logger,
		interview.WithQuestionCount(c.cfg.LLM.QuestionCount),
		interview.WithMaxReprompts(c.cfg.LLM.MaxReprompts),
	), nil
}

// documentText returns the text of a resume or job description file:
// plain text files are read as-is, everything else goes through OCR.
func (c *cli) documentText(ctx context.Context, path string) (string, error) {
	data, err := readFile(path)
	if err != nil {
		return "", err
	}
	if isPlainText(path) {
		return string(data), nil
	}
	res := c.extractor().Recover(common.WithDocument(ctx, path), data)
	if res.Text == "" {
		return "", common.NewAppError(common.CodeInput, fmt.Sprintf("no text recovered from %s", path), common.ErrUnsupported)
	}
	return res.Text, nil
}

// optionalText reads path when set and returns "" otherwise.
func (c *cli) optionalText(ctx context.Context, path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", nil
	}
	return c.documentText(ctx, path)
}

func analyzeFile(ctx context.Context, an *resume.Analyzer, path, jd string) (resume.Analysis, error) {
	data, err := readFile(path)
	if err != nil {
		return resume.Analysis{}, err
	}
	ctx = common.WithDocument(ctx, path)
	if isPlainText(path) {
		return an.AnalyzeText(ctx, string(data), jd), nil
	}
	return an.Analyze(ctx, data, jd), nil
}

func readFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, common.NewAppError(common.CodeInput, "open input", err)
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, maxInputBytes+1))
	if err != nil {
		return nil, common.NewAppError(common.CodeIO, "read input", err)
	}
	if len(data) > maxInputBytes {
		return nil, common.NewAppError(common.CodeInput, fmt.Sprintf("%s is larger than %d bytes", path, maxInputBytes), common.ErrInvalidInput)
	}
	return data, nil
}

func isPlainText(path string) bool {
	return constants.MapExtToFormat(filepath.Ext(path)) == constants.TEXT
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
