package relevance

import (
	"log/slog"
	"strings"
)

// FitCorpus fits a vectorizer once over the given text segments (every
// page's normalized text plus every section's content across the whole
// batch). Fitting failures are logged and yield an unfitted vectorizer;
// the scorer then degrades to its per-call fit or to token overlap.
// Must complete before any TF-IDF-backed scoring begins.
func FitCorpus(segments []string, log *slog.Logger) *Vectorizer {
	v := NewVectorizer()

	texts := make([]string, 0, len(segments))
	for _, s := range segments {
		if strings.TrimSpace(s) != "" {
			texts = append(texts, s)
		}
	}
	if len(texts) == 0 {
		log.Warn("no text found to fit vectorizer")
		return v
	}

	if err := v.Fit(texts); err != nil {
		log.Warn("vectorizer fit failed, continuing unfitted", "error", err)
		return v
	}
	log.Info("vectorizer fitted", "segments", len(texts))
	return v
}
