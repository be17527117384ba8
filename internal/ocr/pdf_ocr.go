package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/joseph-ayodele/careermate/constants"
)

func (e *Extractor) recoverPDF(ctx context.Context, log *slog.Logger, data []byte, src, workDir string) Result {
	var (
		doc Document
		err error
	)
	if e.cfg.DisableTextLayer {
		err = fmt.Errorf("text layer disabled")
	} else {
		doc, err = readTextLayer(data, e.cfg.MaxPages)
	}

	if err != nil {
		// No usable text layer: rasterize every page.
		log.Debug("ocr.pdf.text_layer_unavailable", "error", err)
		text, pages, warns := e.ocrAllPages(ctx, src, workDir)
		return Result{Text: text, Pages: pages, Method: constants.MethodPDFOCR, Warnings: warns}
	}

	var warns []string
	scanned := doc.imageOnly()
	for _, n := range scanned {
		txt, err := e.ocrPage(ctx, src, workDir, n)
		if err != nil {
			log.Warn("ocr.pdf.page_failed", "page", n, "error", err)
			warns = append(warns, fmt.Sprintf("page %d: %v", n, err))
			continue
		}
		doc.Pages[n-1].Text = txt
	}

	method := constants.MethodPDFText
	switch {
	case len(scanned) == len(doc.Pages):
		method = constants.MethodPDFOCR
	case len(scanned) > 0:
		method = constants.MethodPDFMixed
	}
	log.Debug("ocr.pdf.pages", "total", len(doc.Pages), "image_only", len(scanned))

	texts := make([]string, 0, len(doc.Pages))
	for _, p := range doc.Pages {
		texts = append(texts, p.Text)
	}
	return Result{Text: joinPages(texts), Pages: len(doc.Pages), Method: method, Warnings: warns}
}

// ocrPage rasterizes a single page to grayscale PNG and recognizes it.
func (e *Extractor) ocrPage(ctx context.Context, src, workDir string, page int) (string, error) {
	prefix := filepath.Join(workDir, fmt.Sprintf("page-%d", page))
	n := strconv.Itoa(page)
	// pdftoppm -r 300 -gray -png -f N -l N -singlefile <in.pdf> <prefix>
	_, errb, err := e.runner.Run(ctx, e.cfg.Pdftoppm,
		"-r", strconv.Itoa(e.cfg.DPI), "-gray", "-png", "-f", n, "-l", n, "-singlefile", src, prefix)
	if err != nil {
		return "", fmt.Errorf("pdftoppm: %w: %s", err, strings.TrimSpace(string(errb)))
	}
	img := prefix + ".png"
	if _, err := os.Stat(img); err != nil {
		return "", fmt.Errorf("pdftoppm produced no image: %w", err)
	}
	txt, err := e.tesseractOCR(ctx, img)
	if err != nil {
		return "", err
	}
	return Normalize(txt), nil
}

// ocrAllPages rasterizes the whole document in one pass.
func (e *Extractor) ocrAllPages(ctx context.Context, src, workDir string) (string, int, []string) {
	prefix := filepath.Join(workDir, "page")
	args := []string{"-r", strconv.Itoa(e.cfg.DPI), "-gray", "-png"}
	if e.cfg.MaxPages > 0 {
		args = append(args, "-l", strconv.Itoa(e.cfg.MaxPages))
	}
	args = append(args, src, prefix)
	_, errb, err := e.runner.Run(ctx, e.cfg.Pdftoppm, args...)
	if err != nil {
		return "", 0, []string{fmt.Sprintf("pdftoppm: %v: %s", err, strings.TrimSpace(string(errb)))}
	}

	// prefix-1.png, prefix-2.png, ... zero padded to the page count width
	matches, _ := filepath.Glob(prefix + "-*.png")
	sort.Strings(matches)
	if len(matches) == 0 {
		return "", 0, []string{"pdftoppm produced no images"}
	}

	var warns []string
	texts := make([]string, 0, len(matches))
	for _, img := range matches {
		txt, err := e.tesseractOCR(ctx, img)
		if err != nil {
			warns = append(warns, err.Error())
			continue
		}
		texts = append(texts, Normalize(txt))
	}
	return joinPages(texts), len(matches), warns
}

func (e *Extractor) tesseractOCR(ctx context.Context, path string) (string, error) {
	// tesseract <file> stdout -l <lang>
	args := []string{path, "stdout", "-l", e.cfg.TesseractLang}
	if e.cfg.PSM > 0 {
		args = append(args, "--psm", strconv.Itoa(e.cfg.PSM))
	}
	if e.cfg.OEM > 0 {
		args = append(args, "--oem", strconv.Itoa(e.cfg.OEM))
	}
	if e.cfg.TessdataDir != "" {
		args = append(args, "--tessdata-dir", e.cfg.TessdataDir)
	}
	out, errb, err := e.runner.Run(ctx, e.cfg.Tesseract, args...)
	if err != nil {
		return "", fmt.Errorf("tesseract: %w: %s", err, strings.TrimSpace(string(errb)))
	}
	return string(out), nil
}

// joinPages appends one block per non-empty page, separated by a newline.
func joinPages(pages []string) string {
	var b strings.Builder
	for _, p := range pages {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(p)
	}
	return b.String()
}
