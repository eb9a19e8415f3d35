// Package extract turns document files into ordered sequences of
// normalized pages. It is the text-extraction collaborator of the
// ranking pipeline; everything downstream works on corpus.Page values.
package extract

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/docsift/docsift/internal/corpus"
	"github.com/docsift/docsift/internal/normalize"
)

// WordsPerPage is the artificial page size for formats without native
// pagination.
const WordsPerPage = 300

// Extractor converts raw document bytes into ordered pages.
type Extractor interface {
	Extract(r io.Reader, filename string) ([]corpus.Page, error)
}

// SupportedExtensions lists file extensions this service can handle.
var SupportedExtensions = map[string]bool{
	".txt":      true,
	".md":       true,
	".markdown": true,
	".csv":      true,
	".html":     true,
	".htm":      true,
	".pdf":      true,
	".docx":     true,
}

// PDFFallback controls whether PDF extraction shells out to pdftotext
// when the Go library fails. Set once at startup, before any extraction.
var PDFFallback = true

// ForFile returns the appropriate extractor for a filename.
func ForFile(filename string) (Extractor, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".txt":
		return &TextExtractor{}, nil
	case ".md", ".markdown":
		return &MarkdownExtractor{}, nil
	case ".csv":
		return &CSVExtractor{}, nil
	case ".html", ".htm":
		return &HTMLExtractor{}, nil
	case ".pdf":
		return &PDFExtractor{FallbackPdftotext: PDFFallback}, nil
	case ".docx":
		return &DOCXExtractor{}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", filepath.Ext(filename))
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	return SupportedExtensions[strings.ToLower(filepath.Ext(filename))]
}

// Document extracts all pages of one file into a corpus document.
func Document(r io.Reader, filename string) (corpus.Document, error) {
	ex, err := ForFile(filename)
	if err != nil {
		return corpus.Document{}, err
	}
	pages, err := ex.Extract(r, filename)
	if err != nil {
		return corpus.Document{}, err
	}
	return corpus.Document{
		Name:       filepath.Base(filename),
		Pages:      pages,
		TotalPages: len(pages),
	}, nil
}

// paginate normalizes text and splits it into artificial pages of
// roughly WordsPerPage words, keeping line structure intact so the
// segmenter still sees headers.
func paginate(text string) []corpus.Page {
	text = normalize.Text(text)
	if text == "" {
		return nil
	}

	var pages []corpus.Page
	var lines []string
	words := 0

	flush := func() {
		if len(lines) == 0 {
			return
		}
		pages = append(pages, corpus.Page{
			Number: len(pages) + 1,
			Text:   strings.Join(lines, "\n"),
		})
		lines = nil
		words = 0
	}

	for _, line := range strings.Split(text, "\n") {
		lines = append(lines, line)
		words += normalize.WordCount(line)
		if words >= WordsPerPage {
			flush()
		}
	}
	flush()
	return pages
}
