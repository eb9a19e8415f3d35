package corpus

// MaxBatchDocuments is the hard cap on documents per analysis batch.
// Inputs beyond this are dropped with a warning, never an error.
const MaxBatchDocuments = 10

// Page is one page of extracted, normalized document text.
type Page struct {
	Number int    // 1-based, monotonically increasing within a document
	Text   string // normalized page text (may be empty for unreadable pages)
}

// Section is a titled, contiguous span of page text identified by the
// segmenter. Immutable after creation.
type Section struct {
	Title     string
	Content   string
	Page      int
	WordCount int
}

// Document is one input file after extraction.
type Document struct {
	Name       string // file name; document identity
	Pages      []Page
	TotalPages int
}

// Text returns all page text of the document joined with single spaces.
func (d Document) Text() string {
	n := 0
	for _, p := range d.Pages {
		n += len(p.Text) + 1
	}
	buf := make([]byte, 0, n)
	for _, p := range d.Pages {
		if p.Text == "" {
			continue
		}
		if len(buf) > 0 {
			buf = append(buf, ' ')
		}
		buf = append(buf, p.Text...)
	}
	return string(buf)
}

// PageText returns the text of the page with the given number, or "".
func (d Document) PageText(num int) string {
	for _, p := range d.Pages {
		if p.Number == num {
			return p.Text
		}
	}
	return ""
}
