// Package report assembles, validates, and persists the final analysis
// payload. It is the only component that serializes or touches disk.
package report

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/docsift/docsift/internal/normalize"
	"github.com/docsift/docsift/internal/rank"
)

// Result is the complete output payload for one analysis run.
type Result struct {
	Metadata           Metadata          `json:"metadata"`
	ExtractedSections  []SectionEntry    `json:"extracted_sections"`
	SubsectionAnalysis []SubsectionEntry `json:"subsection_analysis"`
	SummaryStatistics  Summary           `json:"summary_statistics"`
}

type Metadata struct {
	Documents                  []string   `json:"documents"`
	Persona                    string     `json:"persona"`
	Job                        string     `json:"job"`
	Timestamp                  string     `json:"timestamp"`
	TotalDocuments             int        `json:"total_documents"`
	TotalSections              int        `json:"total_sections"`
	TotalSubsections           int        `json:"total_subsections"`
	UniqueDocumentsWithContent int        `json:"unique_documents_with_content"`
	AvgSectionsPerDocument     float64    `json:"avg_sections_per_document"`
	Quality                    Quality    `json:"analysis_quality"`
	Processing                 Processing `json:"processing_metadata"`
}

type Quality struct {
	SectionsFound         bool `json:"sections_found"`
	SubsectionsFound      bool `json:"subsections_found"`
	MultiDocumentCoverage bool `json:"multi_document_coverage"`
	SufficientContent     bool `json:"sufficient_content"`
}

type Processing struct {
	System  string    `json:"system"`
	Version string    `json:"version"`
	Model   ModelInfo `json:"model_info"`
}

type ModelInfo struct {
	Primary  string `json:"primary"`
	Fallback string `json:"fallback"`
}

type SectionEntry struct {
	Document        string  `json:"document"`
	Page            int     `json:"page"`
	SectionTitle    string  `json:"section_title"`
	ImportanceRank  int     `json:"importance_rank"`
	ConfidenceScore float64 `json:"confidence_score"`
}

type SubsectionEntry struct {
	Document        string    `json:"document"`
	Page            int       `json:"page"`
	RefinedText     string    `json:"refined_text"`
	ImportanceRank  int       `json:"importance_rank"`
	ConfidenceScore float64   `json:"confidence_score"`
	TextStats       TextStats `json:"text_stats"`
}

type TextStats struct {
	WordCount          int     `json:"word_count"`
	CharacterCount     int     `json:"character_count"`
	ReadingTimeSeconds float64 `json:"estimated_reading_time_seconds"`
}

type Summary struct {
	TopDocumentsByRelevance []DocumentSections `json:"top_documents_by_relevance"`
	ContentDistribution     map[string]int     `json:"content_distribution"`
	QualityIndicators       Indicators         `json:"quality_indicators"`
}

type DocumentSections struct {
	Document     string `json:"document"`
	SectionCount int    `json:"section_count"`
}

type Indicators struct {
	HighConfidenceSections int `json:"high_confidence_sections"`
	DiverseSources         int `json:"diverse_sources"`
	PageCoverage           int `json:"page_coverage"`
}

// Build assembles the payload from the ranked outputs. primaryModel
// names the scoring strategy actually in use.
func Build(documents []string, persona, job string, sections []rank.RankedSection, passages []rank.RankedPassage, primaryModel string) Result {
	entries := make([]SectionEntry, len(sections))
	docSet := map[string]struct{}{}
	pageSet := map[string]struct{}{}
	distribution := map[string]int{}
	highConfidence := 0
	for i, s := range sections {
		entries[i] = SectionEntry{
			Document:        s.Document,
			Page:            s.Page,
			SectionTitle:    s.SectionTitle,
			ImportanceRank:  s.ImportanceRank,
			ConfidenceScore: round3(s.Confidence),
		}
		docSet[s.Document] = struct{}{}
		pageSet[fmt.Sprintf("%s-%d", s.Document, s.Page)] = struct{}{}
		distribution[s.Document]++
		if s.Confidence > 0.7 {
			highConfidence++
		}
	}

	subs := make([]SubsectionEntry, len(passages))
	for i, p := range passages {
		subs[i] = SubsectionEntry{
			Document:        p.Document,
			Page:            p.Page,
			RefinedText:     p.RefinedText,
			ImportanceRank:  p.ImportanceRank,
			ConfidenceScore: round3(p.Confidence),
			TextStats:       statsFor(p.RefinedText),
		}
	}

	avg := 0.0
	if len(docSet) > 0 {
		avg = round2(float64(len(sections)) / float64(len(docSet)))
	}

	return Result{
		Metadata: Metadata{
			Documents:                  documents,
			Persona:                    persona,
			Job:                        job,
			Timestamp:                  time.Now().Format(time.RFC3339),
			TotalDocuments:             len(documents),
			TotalSections:              len(sections),
			TotalSubsections:           len(passages),
			UniqueDocumentsWithContent: len(docSet),
			AvgSectionsPerDocument:     avg,
			Quality: Quality{
				SectionsFound:         len(sections) > 0,
				SubsectionsFound:      len(passages) > 0,
				MultiDocumentCoverage: len(docSet) > 1,
				SufficientContent:     len(sections) >= 5,
			},
			Processing: Processing{
				System:  "docsift",
				Version: "1.0.0",
				Model: ModelInfo{
					Primary:  primaryModel,
					Fallback: "token_overlap",
				},
			},
		},
		ExtractedSections:  entries,
		SubsectionAnalysis: subs,
		SummaryStatistics: Summary{
			TopDocumentsByRelevance: topDocuments(distribution),
			ContentDistribution:     distribution,
			QualityIndicators: Indicators{
				HighConfidenceSections: highConfidence,
				DiverseSources:         len(docSet),
				PageCoverage:           len(pageSet),
			},
		},
	}
}

func statsFor(text string) TextStats {
	words := normalize.WordCount(text)
	reading := float64(words) * 0.25 // ~240 words per minute
	if reading < 1 {
		reading = 1
	}
	return TextStats{
		WordCount:          words,
		CharacterCount:     len(text),
		ReadingTimeSeconds: reading,
	}
}

func topDocuments(distribution map[string]int) []DocumentSections {
	out := make([]DocumentSections, 0, len(distribution))
	for doc, n := range distribution {
		out = append(out, DocumentSections{Document: doc, SectionCount: n})
	}
	// Most sections first; name breaks ties deterministically.
	sort.Slice(out, func(i, j int) bool {
		if out[i].SectionCount != out[j].SectionCount {
			return out[i].SectionCount > out[j].SectionCount
		}
		return out[i].Document < out[j].Document
	})
	if len(out) > 5 {
		out = out[:5]
	}
	return out
}

func round3(v float64) float64 { return math.Round(v*1000) / 1000 }
func round2(v float64) float64 { return math.Round(v*100) / 100 }
