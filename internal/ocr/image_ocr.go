package ocr

import (
	"context"
	"log/slog"

	"github.com/joseph-ayodele/careermate/constants"
)

func (e *Extractor) recoverImage(ctx context.Context, log *slog.Logger, path string) Result {
	txt, err := e.tesseractOCR(ctx, path)
	if err != nil {
		log.Warn("ocr.image.failed", "error", err)
		return Result{Pages: 1, Method: constants.MethodImageOCR, Warnings: []string{err.Error()}}
	}
	return Result{Text: Normalize(txt), Pages: 1, Method: constants.MethodImageOCR}
}
