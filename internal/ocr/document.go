package ocr

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Page is one page of a document. ImageOnly pages carry no text layer.
type Page struct {
	Number    int
	Text      string
	ImageOnly bool
}

type Document struct {
	Pages []Page
}

func (d Document) imageOnly() []int {
	var out []int
	for _, p := range d.Pages {
		if p.ImageOnly {
			out = append(out, p.Number)
		}
	}
	return out
}

var errNoPages = errors.New("document has no pages")

// readTextLayer loads the per-page text layer of a PDF. The reader panics on
// some malformed input, which is turned into an error here.
func readTextLayer(data []byte, maxPages int) (doc Document, err error) {
	defer func() {
		if r := recover(); r != nil {
			doc = Document{}
			err = fmt.Errorf("pdf reader: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return Document{}, err
	}
	total := r.NumPage()
	if total == 0 {
		return Document{}, errNoPages
	}
	if maxPages > 0 && total > maxPages {
		total = maxPages
	}

	for i := 1; i <= total; i++ {
		page := Page{Number: i}
		p := r.Page(i)
		if !p.V.IsNull() {
			if txt, err := p.GetPlainText(nil); err == nil {
				page.Text = Normalize(txt)
			}
		}
		page.ImageOnly = strings.TrimSpace(page.Text) == ""
		doc.Pages = append(doc.Pages, page)
	}
	return doc, nil
}
