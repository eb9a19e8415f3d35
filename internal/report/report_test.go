package report

import (
	"testing"

	"github.com/docsift/docsift/internal/rank"
)

func sampleInputs() ([]string, []rank.RankedSection, []rank.RankedPassage) {
	docs := []string{"a.pdf", "b.pdf"}
	sections := []rank.RankedSection{
		{Document: "a.pdf", Page: 1, SectionTitle: "Dosage", ImportanceRank: 1, Confidence: 0.91},
		{Document: "b.pdf", Page: 2, SectionTitle: "Methods", ImportanceRank: 1, Confidence: 0.85},
		{Document: "a.pdf", Page: 3, SectionTitle: "Risks", ImportanceRank: 2, Confidence: 0.42},
	}
	passages := []rank.RankedPassage{
		{Document: "a.pdf", Page: 1, RefinedText: "Take twice daily with food.", ImportanceRank: 1, Confidence: 0.88},
		{Document: "b.pdf", Page: 2, RefinedText: "The cohort was sampled weekly.", ImportanceRank: 1, Confidence: 0.71},
	}
	return docs, sections, passages
}

func TestBuild_MetadataAndCounts(t *testing.T) {
	docs, sections, passages := sampleInputs()
	r := Build(docs, "clinician", "review dosing guidance", sections, passages, "tfidf")

	if r.Metadata.Persona != "clinician" {
		t.Errorf("unexpected persona %q", r.Metadata.Persona)
	}
	if r.Metadata.Job != "review dosing guidance" {
		t.Errorf("unexpected job %q", r.Metadata.Job)
	}
	if r.Metadata.TotalDocuments != 2 {
		t.Errorf("expected 2 documents, got %d", r.Metadata.TotalDocuments)
	}
	if r.Metadata.TotalSections != 3 || r.Metadata.TotalSubsections != 2 {
		t.Errorf("unexpected totals: %d sections, %d subsections",
			r.Metadata.TotalSections, r.Metadata.TotalSubsections)
	}
	if r.Metadata.Processing.System != "docsift" {
		t.Errorf("unexpected system %q", r.Metadata.Processing.System)
	}
	if r.Metadata.Processing.Model.Primary != "tfidf" {
		t.Errorf("unexpected primary model %q", r.Metadata.Processing.Model.Primary)
	}
	if r.Metadata.Processing.Model.Fallback != "token_overlap" {
		t.Errorf("unexpected fallback %q", r.Metadata.Processing.Model.Fallback)
	}
}

func TestBuild_QualityIndicators(t *testing.T) {
	docs, sections, passages := sampleInputs()
	r := Build(docs, "p", "j", sections, passages, "tfidf")

	q := r.Metadata.Quality
	if !q.SectionsFound || !q.SubsectionsFound {
		t.Error("expected sections and subsections found")
	}
	if !q.MultiDocumentCoverage {
		t.Error("expected multi-document coverage with two documents")
	}
	if q.SufficientContent {
		t.Error("expected insufficient content below five sections")
	}

	ind := r.SummaryStatistics.QualityIndicators
	if ind.HighConfidenceSections != 2 {
		t.Errorf("expected 2 high-confidence sections, got %d", ind.HighConfidenceSections)
	}
	if ind.DiverseSources != 2 {
		t.Errorf("expected 2 diverse sources, got %d", ind.DiverseSources)
	}
	if ind.PageCoverage != 3 {
		t.Errorf("expected 3 distinct pages, got %d", ind.PageCoverage)
	}
}

func TestBuild_ConfidenceRounded(t *testing.T) {
	sections := []rank.RankedSection{
		{Document: "a.pdf", Page: 1, SectionTitle: "T", ImportanceRank: 1, Confidence: 0.123456},
	}
	r := Build([]string{"a.pdf"}, "p", "j", sections, nil, "tfidf")
	if got := r.ExtractedSections[0].ConfidenceScore; got != 0.123 {
		t.Errorf("expected confidence rounded to 0.123, got %v", got)
	}
}

func TestBuild_TextStats(t *testing.T) {
	passages := []rank.RankedPassage{
		{Document: "a.pdf", Page: 1, RefinedText: "five words are written here", ImportanceRank: 1},
	}
	r := Build([]string{"a.pdf"}, "p", "j", nil, passages, "tfidf")
	stats := r.SubsectionAnalysis[0].TextStats
	if stats.WordCount != 5 {
		t.Errorf("expected 5 words, got %d", stats.WordCount)
	}
	if stats.CharacterCount != len("five words are written here") {
		t.Errorf("unexpected character count %d", stats.CharacterCount)
	}
	if stats.ReadingTimeSeconds != 1.25 {
		t.Errorf("expected 1.25s reading time, got %v", stats.ReadingTimeSeconds)
	}
}

func TestBuild_TopDocumentsSorted(t *testing.T) {
	docs, sections, passages := sampleInputs()
	r := Build(docs, "p", "j", sections, passages, "tfidf")
	top := r.SummaryStatistics.TopDocumentsByRelevance
	if len(top) != 2 {
		t.Fatalf("expected 2 top documents, got %d", len(top))
	}
	if top[0].Document != "a.pdf" || top[0].SectionCount != 2 {
		t.Errorf("unexpected leader %+v", top[0])
	}
}

func TestValidate_AcceptsBuiltResult(t *testing.T) {
	docs, sections, passages := sampleInputs()
	r := Build(docs, "p", "j", sections, passages, "tfidf")
	if err := Validate(r); err != nil {
		t.Errorf("expected valid result, got %v", err)
	}
}

func TestValidate_MissingPersona(t *testing.T) {
	r := Build([]string{"a.pdf"}, "", "j", nil, nil, "tfidf")
	if err := Validate(r); err == nil {
		t.Error("expected error for missing persona")
	}
}

func TestValidate_BadPage(t *testing.T) {
	r := Result{
		Metadata: Metadata{Persona: "p", Job: "j"},
		ExtractedSections: []SectionEntry{
			{Document: "a.pdf", Page: 0, SectionTitle: "T", ImportanceRank: 1},
		},
	}
	if err := Validate(r); err == nil {
		t.Error("expected error for page < 1")
	}
}

func TestValidate_NonContiguousRanks(t *testing.T) {
	r := Result{
		Metadata: Metadata{Persona: "p", Job: "j"},
		ExtractedSections: []SectionEntry{
			{Document: "a.pdf", Page: 1, SectionTitle: "T1", ImportanceRank: 1},
			{Document: "a.pdf", Page: 2, SectionTitle: "T2", ImportanceRank: 3},
		},
	}
	if err := Validate(r); err == nil {
		t.Error("expected error for non-contiguous ranks")
	}
}

func TestValidate_DuplicateRanks(t *testing.T) {
	r := Result{
		Metadata: Metadata{Persona: "p", Job: "j"},
		SubsectionAnalysis: []SubsectionEntry{
			{Document: "a.pdf", Page: 1, RefinedText: "x", ImportanceRank: 1},
			{Document: "a.pdf", Page: 2, RefinedText: "y", ImportanceRank: 1},
		},
	}
	if err := Validate(r); err == nil {
		t.Error("expected error for duplicate ranks within a document")
	}
}

func TestValidate_RanksPerDocumentIndependent(t *testing.T) {
	// Two documents each starting at rank 1 is the expected shape.
	r := Result{
		Metadata: Metadata{Persona: "p", Job: "j"},
		ExtractedSections: []SectionEntry{
			{Document: "a.pdf", Page: 1, SectionTitle: "T1", ImportanceRank: 1},
			{Document: "b.pdf", Page: 1, SectionTitle: "T2", ImportanceRank: 1},
		},
	}
	if err := Validate(r); err != nil {
		t.Errorf("expected per-document ranks to validate, got %v", err)
	}
}
