package report

import (
	"fmt"
	"sort"
)

// Validate checks the payload against the output contract before it is
// persisted or returned. A failure here is a core-contract violation,
// not a data problem, and is fatal.
func Validate(r Result) error {
	if r.Metadata.Persona == "" {
		return fmt.Errorf("report: metadata missing persona")
	}
	if r.Metadata.Job == "" {
		return fmt.Errorf("report: metadata missing job")
	}

	sectionRanks := map[string][]int{}
	for i, s := range r.ExtractedSections {
		if s.Document == "" {
			return fmt.Errorf("report: section %d missing document", i)
		}
		if s.Page < 1 {
			return fmt.Errorf("report: section %d has invalid page %d", i, s.Page)
		}
		if s.SectionTitle == "" {
			return fmt.Errorf("report: section %d missing title", i)
		}
		if s.ImportanceRank < 1 {
			return fmt.Errorf("report: section %d has invalid rank %d", i, s.ImportanceRank)
		}
		sectionRanks[s.Document] = append(sectionRanks[s.Document], s.ImportanceRank)
	}
	if err := checkContiguous(sectionRanks, "sections"); err != nil {
		return err
	}

	passageRanks := map[string][]int{}
	for i, p := range r.SubsectionAnalysis {
		if p.Document == "" {
			return fmt.Errorf("report: subsection %d missing document", i)
		}
		if p.Page < 1 {
			return fmt.Errorf("report: subsection %d has invalid page %d", i, p.Page)
		}
		if p.RefinedText == "" {
			return fmt.Errorf("report: subsection %d missing refined text", i)
		}
		if p.ImportanceRank < 1 {
			return fmt.Errorf("report: subsection %d has invalid rank %d", i, p.ImportanceRank)
		}
		passageRanks[p.Document] = append(passageRanks[p.Document], p.ImportanceRank)
	}
	return checkContiguous(passageRanks, "subsections")
}

// checkContiguous verifies that each document's ranks form the
// contiguous permutation 1..K with no ties.
func checkContiguous(byDoc map[string][]int, kind string) error {
	for doc, ranks := range byDoc {
		sorted := append([]int(nil), ranks...)
		sort.Ints(sorted)
		for i, r := range sorted {
			if r != i+1 {
				return fmt.Errorf("report: %s ranks for %q are not a contiguous 1..%d permutation", kind, doc, len(sorted))
			}
		}
	}
	return nil
}
