// Package pipeline orchestrates batch analysis: extraction,
// segmentation, one-shot corpus fitting, scoring, ranking, and report
// assembly. The corpus fit always completes before any scoring begins.
package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/docsift/docsift/internal/config"
	"github.com/docsift/docsift/internal/corpus"
	"github.com/docsift/docsift/internal/extract"
	"github.com/docsift/docsift/internal/rank"
	"github.com/docsift/docsift/internal/relevance"
	"github.com/docsift/docsift/internal/report"
	"github.com/docsift/docsift/internal/segment"
)

// Input is one document file to analyze.
type Input struct {
	Filename string
	Data     []byte
}

// Analyzer runs the persona-driven relevance pipeline over a batch.
type Analyzer struct {
	cfg      config.Config
	embedder relevance.Embedder // nil when the capability is absent
	stats    *Stats
	log      *slog.Logger
}

func NewAnalyzer(cfg config.Config, embedder relevance.Embedder, log *slog.Logger) *Analyzer {
	return &Analyzer{
		cfg:      cfg,
		embedder: embedder,
		stats:    NewStats(time.Hour),
		log:      log,
	}
}

// Stats returns the rolling analysis latency statistics.
func (a *Analyzer) Stats() *Stats { return a.stats }

// segmented pairs a document with its sections in page/discovery order.
type segmented struct {
	doc      corpus.Document
	sections []corpus.Section
}

// Run analyzes the batch against the persona/job query and returns the
// validated report. Warnings describe documents or pages that were
// skipped or substituted; the batch still succeeds. An empty query or
// an unreadable batch is a fatal configuration error with no partial
// output.
func (a *Analyzer) Run(ctx context.Context, inputs []Input, persona, job string, progress func(phase string)) (report.Result, []string, error) {
	start := time.Now()
	if progress == nil {
		progress = func(string) {}
	}

	if strings.TrimSpace(persona) == "" {
		return report.Result{}, nil, fmt.Errorf("persona is required")
	}
	if strings.TrimSpace(job) == "" {
		return report.Result{}, nil, fmt.Errorf("job is required")
	}
	if len(inputs) == 0 {
		return report.Result{}, nil, fmt.Errorf("no input documents")
	}

	var warnings []string
	if len(inputs) > a.cfg.MaxDocuments {
		w := fmt.Sprintf("found %d files, maximum is %d; using first %d", len(inputs), a.cfg.MaxDocuments, a.cfg.MaxDocuments)
		a.log.Warn("batch truncated", "files", len(inputs), "max", a.cfg.MaxDocuments)
		warnings = append(warnings, w)
		inputs = inputs[:a.cfg.MaxDocuments]
	}

	query := persona + " " + job

	// Phase 1: extract and segment every document. A failing document
	// is skipped with a warning; a failing page was already substituted
	// with an empty one by the extractor.
	progress("extracting")
	var batch []segmented
	names := make([]string, 0, len(inputs))
	for _, in := range inputs {
		if err := ctx.Err(); err != nil {
			return report.Result{}, warnings, err
		}
		doc, err := extract.Document(bytes.NewReader(in.Data), in.Filename)
		if err != nil {
			w := fmt.Sprintf("skipping %s: %s", in.Filename, err)
			a.log.Warn("document skipped", "file", in.Filename, "error", err)
			warnings = append(warnings, w)
			continue
		}
		empty := 0
		var sections []corpus.Section
		for _, pg := range doc.Pages {
			if pg.Text == "" {
				empty++
				continue
			}
			sections = append(sections, segment.Sections(pg.Text, pg.Number)...)
		}
		if empty > 0 {
			a.log.Warn("unreadable pages substituted", "file", doc.Name, "pages", empty)
		}
		batch = append(batch, segmented{doc: doc, sections: sections})
		names = append(names, doc.Name)
		a.log.Info("document extracted", "file", doc.Name, "pages", doc.TotalPages, "sections", len(sections))
	}
	if len(batch) == 0 {
		return report.Result{}, warnings, fmt.Errorf("no readable documents in batch")
	}

	// Phase 2: fit the corpus once, before any scoring.
	progress("fitting")
	var texts []string
	for _, b := range batch {
		for _, pg := range b.doc.Pages {
			if pg.Text != "" {
				texts = append(texts, pg.Text)
			}
		}
		for _, sec := range b.sections {
			if sec.Content != "" {
				texts = append(texts, sec.Content)
			}
		}
	}
	vec := relevance.FitCorpus(texts, a.log)
	scorer := relevance.NewScorer(a.embedder, vec)

	// Phase 3: score documents in parallel. Results are collected by
	// input index so parallelism never changes how ties resolve.
	progress("scoring")
	type docResult struct {
		sections []rank.RankedSection
		passages []rank.RankedPassage
	}
	results := make([]docResult, len(batch))
	sem := make(chan struct{}, a.cfg.WorkerCount)
	var wg sync.WaitGroup
	for i := range batch {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()
			b := batch[i]
			results[i] = docResult{
				sections: rank.Sections(b.doc.Name, b.sections, query, scorer, a.cfg.SectionLimit),
				passages: rank.Passages(b.doc, query, scorer, a.cfg.PassageLimit, a.cfg.MinPassageWords),
			}
		}(i)
	}
	wg.Wait()
	if err := ctx.Err(); err != nil {
		return report.Result{}, warnings, err
	}

	// Phase 4: merge per-document rankings by importance rank; stable
	// sort keeps input order for equal ranks.
	progress("reporting")
	var allSections []rank.RankedSection
	var allPassages []rank.RankedPassage
	for _, r := range results {
		allSections = append(allSections, r.sections...)
		allPassages = append(allPassages, r.passages...)
	}
	sort.SliceStable(allSections, func(i, j int) bool {
		return allSections[i].ImportanceRank < allSections[j].ImportanceRank
	})
	sort.SliceStable(allPassages, func(i, j int) bool {
		return allPassages[i].ImportanceRank < allPassages[j].ImportanceRank
	})

	result := report.Build(names, persona, job, allSections, allPassages, scorer.Strategy())
	if err := report.Validate(result); err != nil {
		return report.Result{}, warnings, err
	}

	elapsed := time.Since(start)
	a.stats.Record(elapsed.Milliseconds())
	a.log.Info("analysis complete",
		"documents", len(batch),
		"sections", len(allSections),
		"subsections", len(allPassages),
		"duration_ms", elapsed.Milliseconds(),
	)
	return result, warnings, nil
}
