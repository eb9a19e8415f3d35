// Package normalize cleans raw extracted text into a canonical form
// shared by the segmenter and the scoring pipeline.
package normalize

import (
	"regexp"
	"strings"
)

var (
	// Characters outside the allow-list (word chars, whitespace, common
	// punctuation) are replaced with a space before collapsing.
	disallowed = regexp.MustCompile(`[^\w\s\-.,;:!?()\[\]{}"']`)

	// Horizontal whitespace runs collapse to a single space. Runs that
	// contain a line break collapse to a single newline instead, so the
	// segmenter still sees line structure.
	horizontal = regexp.MustCompile(`[^\S\n]+`)
	vertical   = regexp.MustCompile(`[^\S\n]*\n\s*`)
)

// Text normalizes raw page text. Idempotent; empty input yields "".
func Text(raw string) string {
	if raw == "" {
		return ""
	}
	s := disallowed.ReplaceAllString(raw, " ")
	s = vertical.ReplaceAllString(s, "\n")
	s = horizontal.ReplaceAllString(s, " ")

	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		out = append(out, fixRepeats(line))
	}
	return strings.Join(out, "\n")
}

// fixRepeats collapses words that are a single character repeated 4+
// times (a common OCR artifact) down to two characters.
func fixRepeats(line string) string {
	words := strings.Split(line, " ")
	changed := false
	for i, w := range words {
		if r, ok := repeatedRune(w); ok {
			words[i] = string([]rune{r, r})
			changed = true
		}
	}
	if !changed {
		return line
	}
	return strings.Join(words, " ")
}

func repeatedRune(w string) (rune, bool) {
	runes := []rune(w)
	if len(runes) < 4 {
		return 0, false
	}
	first := runes[0]
	if !isWordRune(first) {
		return 0, false
	}
	for _, r := range runes[1:] {
		if r != first {
			return 0, false
		}
	}
	return first, true
}

func isWordRune(r rune) bool {
	return r == '_' ||
		(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
		(r >= '0' && r <= '9')
}

// WordCount counts whitespace-separated tokens.
func WordCount(text string) int {
	return len(strings.Fields(text))
}
