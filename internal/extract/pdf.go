package extract

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/docsift/docsift/internal/corpus"
	"github.com/docsift/docsift/internal/normalize"
	pdflib "github.com/ledongthuc/pdf"
)

// PDFExtractor handles PDF files. It tries the Go library first,
// then falls back to pdftotext if available. A page that cannot be
// read yields an empty page so numbering stays intact; it never aborts
// the document.
type PDFExtractor struct {
	FallbackPdftotext bool
}

func (p *PDFExtractor) Extract(r io.Reader, filename string) ([]corpus.Page, error) {
	// ledongthuc/pdf requires a ReadSeeker+size, so we write to a temp file.
	tmp, err := os.CreateTemp("", "docsift-pdf-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	tmp.Close()

	pages, err := extractPDFPages(tmpPath)
	if err != nil && p.FallbackPdftotext {
		pages, err = extractPdftotext(tmpPath)
	}
	if err != nil {
		return nil, fmt.Errorf("extract pdf text: %w", err)
	}
	return pages, nil
}

func extractPDFPages(path string) ([]corpus.Page, error) {
	f, reader, err := pdflib.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	numPages := reader.NumPage()
	pages := make([]corpus.Page, 0, numPages)
	for i := 1; i <= numPages; i++ {
		page := corpus.Page{Number: i}
		pg := reader.Page(i)
		if !pg.V.IsNull() {
			if text, err := pg.GetPlainText(nil); err == nil {
				page.Text = normalize.Text(text)
			}
			// A failed page stays empty; the pipeline logs it.
		}
		pages = append(pages, page)
	}
	return pages, nil
}

func extractPdftotext(path string) ([]corpus.Page, error) {
	cmd := exec.Command("pdftotext", "-layout", path, "-")
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("pdftotext: %w", err)
	}
	// pdftotext separates pages with form feeds.
	raw := strings.Split(string(out), "\f")
	pages := make([]corpus.Page, 0, len(raw))
	for i, text := range raw {
		pages = append(pages, corpus.Page{
			Number: i + 1,
			Text:   normalize.Text(text),
		})
	}
	return pages, nil
}
