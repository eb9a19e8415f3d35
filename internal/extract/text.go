package extract

import (
	"bufio"
	"io"
	"strings"

	"github.com/docsift/docsift/internal/corpus"
)

// TextExtractor handles plain text files. Text files carry no native
// pagination, so the content is split into ~300-word pages.
type TextExtractor struct{}

func (p *TextExtractor) Extract(r io.Reader, filename string) ([]corpus.Page, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var buf strings.Builder
	for scanner.Scan() {
		buf.WriteString(scanner.Text())
		buf.WriteString("\n")
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return paginate(buf.String()), nil
}
