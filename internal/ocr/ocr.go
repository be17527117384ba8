package ocr

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/joseph-ayodele/careermate/constants"
	"github.com/joseph-ayodele/careermate/internal/common"
)

type Config struct {
	Pdftoppm  string // binary name or absolute path; if empty -> "pdftoppm"
	Tesseract string // binary name or absolute path; if empty -> "tesseract"

	TesseractLang string // default "eng"
	TessdataDir   string
	DPI           int // rasterization DPI for image-only pages, default 300
	MaxPages      int // 0 = no limit

	PSM int // e.g., 6 is good for uniform block of text
	OEM int // 1 = LSTM; leave 0 to use default

	TempDir string // parent for per-call work dirs; "" = os.TempDir()

	// DisableTextLayer forces OCR on every page.
	DisableTextLayer bool
}

// ConfigFrom maps the application OCR settings onto an extractor Config.
func ConfigFrom(c common.OCRConfig) Config {
	return Config{
		Pdftoppm:      c.Pdftoppm,
		Tesseract:     c.Tesseract,
		TesseractLang: c.TesseractLang,
		TessdataDir:   c.TessdataDir,
		DPI:           c.DPI,
		MaxPages:      c.MaxPages,
		PSM:           c.PSM,
		OEM:           c.OEM,
		TempDir:       c.TempDir,

		DisableTextLayer: c.DisableTextLayer,
	}
}

// Result is the outcome of one recovery. An empty Text means nothing was recovered.
type Result struct {
	Text       string
	Pages      int
	Method     constants.RecoveryMethod
	Duration   time.Duration
	Warnings   []string
	Confidence float32
}

type Extractor struct {
	cfg    Config
	runner Runner
	logger *slog.Logger
}

func NewExtractor(cfg Config, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.TesseractLang == "" {
		cfg.TesseractLang = "eng"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 300
	}
	return &Extractor{cfg: cfg, runner: newExecRunner(logger), logger: logger}
}

// WithRunner swaps the command runner, mainly for tests.
func (e *Extractor) WithRunner(r Runner) *Extractor {
	cp := *e
	cp.runner = r
	return &cp
}

// Text returns only the recovered text of data.
func (e *Extractor) Text(ctx context.Context, data []byte) string {
	return e.Recover(ctx, data).Text
}

// Recover turns raw document bytes into plain text, one block per page in page
// order. It never fails: problems are logged and reported as an empty Text.
// All temporary artifacts are removed before it returns.
func (e *Extractor) Recover(ctx context.Context, data []byte) Result {
	start := time.Now()
	ctx, reqID := common.EnsureRequestID(ctx)
	log := e.logger.With("req_id", reqID)
	if doc := common.DocumentFromContext(ctx); doc != "" {
		log = log.With("document", doc)
	}

	if len(data) == 0 {
		log.Warn("ocr.recover.empty_input")
		return Result{Method: constants.MethodFailed, Warnings: []string{"empty input"}}
	}

	workDir, err := os.MkdirTemp(e.cfg.TempDir, "careermate-ocr-*")
	if err != nil {
		log.Error("ocr.recover.tempfile_failed", "error", err)
		return Result{Method: constants.MethodFailed, Warnings: []string{"temp storage unavailable: " + err.Error()}}
	}
	defer func() {
		if err := os.RemoveAll(workDir); err != nil {
			log.Warn("ocr.recover.cleanup_failed", "dir", workDir, "error", err)
		}
	}()

	format := detectFormat(data)
	src, err := materialize(workDir, data, format)
	if err != nil {
		log.Error("ocr.recover.tempfile_failed", "error", err)
		return Result{Method: constants.MethodFailed, Warnings: []string{"temp storage unavailable: " + err.Error()}}
	}

	var res Result
	switch format {
	case constants.IMAGE:
		res = e.recoverImage(ctx, log, src)
	default:
		res = e.recoverPDF(ctx, log, data, src, workDir)
	}

	res.Duration = time.Since(start)
	if res.Text == "" {
		res.Method = constants.MethodFailed
		log.Warn("ocr.recover.no_text",
			"pages", res.Pages,
			"warnings", len(res.Warnings),
			"duration_ms", res.Duration.Milliseconds(),
		)
		return res
	}
	res.Confidence = heuristicConfidence(res.Text)
	log.Info("ocr.recover.ok",
		"method", res.Method,
		"pages", res.Pages,
		"chars", len(res.Text),
		"confidence", res.Confidence,
		"duration_ms", res.Duration.Milliseconds(),
	)
	return res
}

// detectFormat sniffs the content; anything not recognisably an image is
// handed to the PDF path, where unreadable input simply yields no text.
func detectFormat(data []byte) constants.DocumentFormat {
	if f := constants.MapContentTypeToFormat(http.DetectContentType(data)); f != "" {
		return f
	}
	return constants.PDF
}

func materialize(dir string, data []byte, format constants.DocumentFormat) (string, error) {
	pattern := "document-*.pdf"
	if format == constants.IMAGE {
		pattern = "document-*.img"
	}
	f, err := os.CreateTemp(dir, pattern)
	if err != nil {
		return "", err
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return filepath.Clean(f.Name()), nil
}
