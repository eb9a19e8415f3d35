// Package rank turns scored sections and passages into the final
// importance-ranked output lists.
package rank

import (
	"sort"
	"strings"

	"github.com/docsift/docsift/internal/corpus"
	"github.com/docsift/docsift/internal/normalize"
	"github.com/docsift/docsift/internal/relevance"
	"github.com/docsift/docsift/internal/segment"
)

const (
	// DefaultSectionLimit is the top-K for ranked sections.
	DefaultSectionLimit = 20
	// DefaultPassageLimit is the top-K for ranked passages.
	DefaultPassageLimit = 15
	// DefaultMinPassageWords is the qualifying threshold for passages.
	DefaultMinPassageWords = 20

	minSentenceWords    = 5
	maxRefinedSentences = 3
	refineFallbackChars = 500
)

// RankedSection is a final, externally visible section ranking entry.
type RankedSection struct {
	Document       string
	Page           int
	SectionTitle   string
	ImportanceRank int
	// Confidence carries the internal score for the report's optional
	// annotation; it is not part of the ranking contract.
	Confidence float64
}

// RankedPassage is a final, externally visible refined-passage entry.
type RankedPassage struct {
	Document       string
	Page           int
	RefinedText    string
	ImportanceRank int
	Confidence     float64
}

// Sections scores every non-empty section of one document against the
// query and returns the top entries, ranked 1..len. The sort is stable:
// equal scores keep page order, then discovery order.
func Sections(docName string, sections []corpus.Section, query string, scorer *relevance.Scorer, limit int) []RankedSection {
	if limit <= 0 {
		limit = DefaultSectionLimit
	}

	type scored struct {
		sec   corpus.Section
		score float64
	}
	items := make([]scored, 0, len(sections))
	for _, sec := range sections {
		if sec.Content == "" {
			continue
		}
		items = append(items, scored{sec: sec, score: scorer.Score(sec.Content, query)})
	}

	sort.SliceStable(items, func(i, j int) bool { return items[i].score > items[j].score })
	if len(items) > limit {
		items = items[:limit]
	}

	out := make([]RankedSection, len(items))
	for i, it := range items {
		out[i] = RankedSection{
			Document:       docName,
			Page:           it.sec.Page,
			SectionTitle:   it.sec.Title,
			ImportanceRank: i + 1,
			Confidence:     it.score,
		}
	}
	return out
}

// Passages extracts paragraph-level passages from every page of the
// document, scores them, refines each to its most query-relevant
// sentences, and returns the top entries ranked 1..len. Ranking uses
// the passage score, never a re-score of the refined text.
func Passages(doc corpus.Document, query string, scorer *relevance.Scorer, limit, minWords int) []RankedPassage {
	if limit <= 0 {
		limit = DefaultPassageLimit
	}
	if minWords <= 0 {
		minWords = DefaultMinPassageWords
	}

	type scored struct {
		page    int
		refined string
		score   float64
	}
	var items []scored
	for _, page := range doc.Pages {
		if page.Text == "" {
			continue
		}
		for _, para := range strings.Split(page.Text, "\n") {
			para = strings.TrimSpace(para)
			if normalize.WordCount(para) < minWords {
				continue
			}
			refined := Refine(para, query, scorer)
			if refined == "" {
				continue
			}
			items = append(items, scored{
				page:    page.Number,
				refined: refined,
				score:   scorer.Score(para, query),
			})
		}
	}

	sort.SliceStable(items, func(i, j int) bool { return items[i].score > items[j].score })
	if len(items) > limit {
		items = items[:limit]
	}

	out := make([]RankedPassage, len(items))
	for i, it := range items {
		out[i] = RankedPassage{
			Document:       doc.Name,
			Page:           it.page,
			RefinedText:    it.refined,
			ImportanceRank: i + 1,
			Confidence:     it.score,
		}
	}
	return out
}

// Refine extracts the most query-relevant sentences from a passage.
// Passages of three or fewer sentences pass through unchanged.
// Otherwise the top three sentences of five or more words are selected
// by score and re-emitted in their original relative order — not score
// order. With no qualifying sentences the passage's first 500
// characters are used.
func Refine(passage, query string, scorer *relevance.Scorer) string {
	sentences := segment.Sentences(passage)
	if len(sentences) <= maxRefinedSentences {
		return passage
	}

	type scored struct {
		idx   int
		score float64
	}
	var qualifying []scored
	for i, s := range sentences {
		if normalize.WordCount(s) >= minSentenceWords {
			qualifying = append(qualifying, scored{idx: i, score: scorer.Score(s, query)})
		}
	}
	if len(qualifying) == 0 {
		return truncate(passage, refineFallbackChars)
	}

	sort.SliceStable(qualifying, func(i, j int) bool { return qualifying[i].score > qualifying[j].score })
	if len(qualifying) > maxRefinedSentences {
		qualifying = qualifying[:maxRefinedSentences]
	}
	sort.Slice(qualifying, func(i, j int) bool { return qualifying[i].idx < qualifying[j].idx })

	parts := make([]string, len(qualifying))
	for i, q := range qualifying {
		parts[i] = sentences[q.idx]
	}
	return strings.Join(parts, ". ") + "."
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
