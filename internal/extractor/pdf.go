package extractor

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

const pdfExt = ".pdf"

type PDF struct {
	logger *log.Logger
}

func NewPDF(logger *log.Logger) *PDF {
	if logger == nil {
		logger = log.Default()
	}
	return &PDF{logger: logger}
}

func (p *PDF) Supports(filename string) bool {
	return strings.EqualFold(filepath.Ext(strings.TrimSpace(filename)), pdfExt)
}

// Extract reads every page in order and joins the page texts with a space.
// A page that fails to decode contributes no text; a document that cannot be
// opened at all is ErrUnreadable.
func (p *PDF) Extract(ctx context.Context, document []byte) (text string, err error) {
	if len(document) == 0 {
		return "", ErrUnreadable
	}

	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("%w: pdf reader panic: %v", ErrUnreadable, r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(document), int64(len(document)))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnreadable, err)
	}

	var b strings.Builder
	pages := r.NumPage()
	for i := 1; i <= pages; i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		pt, err := page.GetPlainText(nil)
		if err != nil {
			if p != nil && p.logger != nil {
				p.logger.Printf("pdf_extract page=%d status=error err=%v", i, err)
			}
			pt = ""
		}
		b.WriteString(pt)
		b.WriteByte(' ')
	}

	return strings.TrimSpace(b.String()), nil
}

var _ Extractor = (*PDF)(nil)
