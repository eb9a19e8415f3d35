// Package relevance scores text against a query using the best
// available of three strategies: local embedding similarity, corpus
// TF-IDF similarity, and token-overlap similarity.
package relevance

import (
	"context"
	"math"
	"strings"
)

// Embedder is the optional local sentence-embedding capability.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// strategy is one scorer variant. It reports (score, false) when
// unavailable instead of raising, so the caller falls through cleanly.
type strategy interface {
	name() string
	score(text, query string) (float64, bool)
}

// Scorer produces a similarity score in [0,1] between text and a query.
// Deterministic given identical inputs and identical fitted state; it
// never panics or errors for any input.
type Scorer struct {
	strategies []strategy
}

// NewScorer builds the strategy ladder. embedder may be nil (embedding
// strategy skipped); vec may be unfitted (TF-IDF degrades to a
// per-call two-document fit).
func NewScorer(embedder Embedder, vec *Vectorizer) *Scorer {
	s := &Scorer{}
	if embedder != nil {
		s.strategies = append(s.strategies, &embeddingStrategy{embedder: embedder})
	}
	if vec == nil {
		vec = NewVectorizer()
	}
	s.strategies = append(s.strategies,
		&tfidfStrategy{vec: vec},
		overlapStrategy{},
	)
	return s
}

// Score returns the relevance of text to query in [0,1]. Empty text or
// query scores exactly 0.
func (s *Scorer) Score(text, query string) float64 {
	if text == "" || query == "" {
		return 0.0
	}
	for _, st := range s.strategies {
		if v, ok := st.score(text, query); ok {
			return clamp01(v)
		}
	}
	return 0.0
}

// Strategy returns the name of the first available strategy for the
// given inputs, for report metadata.
func (s *Scorer) Strategy() string {
	if len(s.strategies) == 0 {
		return "none"
	}
	return s.strategies[0].name()
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

type embeddingStrategy struct {
	embedder Embedder
}

func (e *embeddingStrategy) name() string { return "embedding" }

func (e *embeddingStrategy) score(text, query string) (float64, bool) {
	ctx := context.Background()
	tv, err := e.embedder.Embed(ctx, text)
	if err != nil {
		return 0, false
	}
	qv, err := e.embedder.Embed(ctx, query)
	if err != nil || len(tv) != len(qv) || len(tv) == 0 {
		return 0, false
	}
	return cosine32(tv, qv), true
}

func cosine32(a, b []float32) float64 {
	var d, na, nb float64
	for i := range a {
		d += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return d / (math.Sqrt(na) * math.Sqrt(nb))
}

type tfidfStrategy struct {
	vec *Vectorizer
}

func (t *tfidfStrategy) name() string { return "tfidf" }

func (t *tfidfStrategy) score(text, query string) (float64, bool) {
	if t.vec.Fitted() {
		return t.vec.Similarity(text, query), true
	}
	// Last resort: a local two-document fit. Kept per-call so shared
	// state is never written during scoring.
	local := NewVectorizer()
	if err := local.Fit([]string{text, query}); err != nil {
		return 0, false
	}
	return local.Similarity(text, query), true
}

// overlapStrategy is the guaranteed fallback: Jaccard similarity of
// lowercase whitespace token sets.
type overlapStrategy struct{}

func (overlapStrategy) name() string { return "token_overlap" }

func (overlapStrategy) score(text, query string) (float64, bool) {
	a := tokenSet(text)
	b := tokenSet(query)
	if len(a) == 0 || len(b) == 0 {
		return 0, true
	}
	inter := 0
	for t := range a {
		if _, ok := b[t]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	return float64(inter) / float64(union), true
}

func tokenSet(text string) map[string]struct{} {
	fields := strings.Fields(strings.ToLower(text))
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}
