package extract

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/docsift/docsift/internal/corpus"
)

// CSVExtractor handles CSV files. Each row is rendered as a
// "header: value" line so scoring sees labeled content.
type CSVExtractor struct{}

func (p *CSVExtractor) Extract(r io.Reader, filename string) ([]corpus.Page, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	headers := records[0]
	var lines []string
	for _, row := range records[1:] {
		var cells []string
		for j, cell := range row {
			if j < len(headers) {
				cells = append(cells, headers[j]+": "+cell)
			} else {
				cells = append(cells, cell)
			}
		}
		lines = append(lines, strings.Join(cells, ", "))
	}
	return paginate(strings.Join(lines, "\n")), nil
}
