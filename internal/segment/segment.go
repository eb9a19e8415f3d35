// Package segment splits normalized page text into titled sections
// using a fixed ladder of header-detection heuristics.
package segment

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/docsift/docsift/internal/corpus"
	"github.com/docsift/docsift/internal/normalize"
)

// maxHeaderLen is the cutoff above which a line is never a header.
const maxHeaderLen = 100

var (
	numberedPattern  = regexp.MustCompile(`^\d+\.`)
	allCapsPattern   = regexp.MustCompile(`^[A-Z][A-Z\s]+$`)
	titleCasePattern = regexp.MustCompile(`^[A-Z][a-z]+(\s+[A-Z][a-z]+)*:?$`)
	keywordPattern   = regexp.MustCompile(`^(Chapter|Section|Part|Introduction|Conclusion)`)
)

// HeaderRule is one pure predicate in the header-detection ladder.
type HeaderRule struct {
	Name  string
	Match func(line string) bool
}

// HeaderRules is the ladder, evaluated in priority order; the first
// matching rule classifies the line as a header. The rules are
// intentionally kept as documented, overlaps and all — a short line
// ending in "!" still classifies via the generic short-line rule.
var HeaderRules = []HeaderRule{
	{Name: "numbered", Match: func(l string) bool { return numberedPattern.MatchString(l) }},
	{Name: "all_caps", Match: func(l string) bool { return allCapsPattern.MatchString(l) }},
	{Name: "title_case", Match: func(l string) bool { return titleCasePattern.MatchString(l) }},
	{Name: "keyword", Match: func(l string) bool { return keywordPattern.MatchString(l) }},
	{Name: "colon", Match: func(l string) bool {
		return strings.HasSuffix(l, ":") && normalize.WordCount(l) <= 8
	}},
	{Name: "short_line", Match: func(l string) bool {
		return normalize.WordCount(l) <= 6 && !strings.HasSuffix(l, ".")
	}},
}

// IsHeader reports whether a line classifies as a section header.
func IsHeader(line string) bool {
	if len(line) > maxHeaderLen {
		return false
	}
	for _, rule := range HeaderRules {
		if rule.Match(line) {
			return true
		}
	}
	return false
}

// Sections splits normalized page text into titled sections. A header
// line closes the previous section and opens a new one; body lines
// before any header accumulate under an implicit page-content title.
// A header with no following body produces no section. If the walk
// yields nothing but the page has text, one catch-all section spans
// the whole page.
func Sections(text string, page int) []corpus.Section {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	var sections []corpus.Section
	var title string
	var body []string

	flush := func() {
		if title == "" || len(body) == 0 {
			return
		}
		content := strings.Join(body, " ")
		sections = append(sections, corpus.Section{
			Title:     title,
			Content:   content,
			Page:      page,
			WordCount: normalize.WordCount(content),
		})
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		switch {
		case IsHeader(line):
			flush()
			title = line
			body = nil
		case title != "":
			body = append(body, line)
		case len(sections) == 0:
			title = fmt.Sprintf("Content from page %d", page)
			body = append(body, line)
		}
	}
	flush()

	if len(sections) == 0 {
		sections = append(sections, corpus.Section{
			Title:     fmt.Sprintf("Content from page %d", page),
			Content:   text,
			Page:      page,
			WordCount: normalize.WordCount(text),
		})
	}
	return sections
}

// Sentences splits text on periods, trimming whitespace and dropping
// empty fragments.
func Sentences(text string) []string {
	parts := strings.Split(text, ".")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
