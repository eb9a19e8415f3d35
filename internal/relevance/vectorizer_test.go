package relevance

import (
	"fmt"
	"math"
	"testing"
)

func TestVectorizer_FitEmptyCorpus(t *testing.T) {
	v := NewVectorizer()
	if err := v.Fit(nil); err == nil {
		t.Error("expected error fitting empty corpus")
	}
	if v.Fitted() {
		t.Error("expected vectorizer to remain unfitted")
	}
}

func TestVectorizer_SelfSimilarityIsOne(t *testing.T) {
	v := NewVectorizer()
	docs := []string{
		"diabetes treatment protocols for elderly patients",
		"quarterly financial revenue growth analysis",
	}
	if err := v.Fit(docs); err != nil {
		t.Fatalf("fit: %v", err)
	}
	sim := v.Similarity(docs[0], docs[0])
	if math.Abs(sim-1.0) > 1e-9 {
		t.Errorf("expected self similarity 1.0, got %f", sim)
	}
}

func TestVectorizer_DisjointTextsScoreZero(t *testing.T) {
	v := NewVectorizer()
	if err := v.Fit([]string{
		"diabetes insulin glucose monitoring",
		"quarterly revenue profit margins",
	}); err != nil {
		t.Fatalf("fit: %v", err)
	}
	sim := v.Similarity("diabetes insulin glucose", "quarterly revenue profit")
	if sim != 0 {
		t.Errorf("expected 0 for disjoint vocabularies, got %f", sim)
	}
}

func TestVectorizer_RelevantScoresHigher(t *testing.T) {
	v := NewVectorizer()
	if err := v.Fit([]string{
		"diabetes treatment insulin dosage guidance for clinicians",
		"cloud infrastructure deployment pipelines and monitoring",
		"patient glucose monitoring schedules during treatment",
	}); err != nil {
		t.Fatalf("fit: %v", err)
	}
	query := "clinician guidance on diabetes treatment"
	relevant := v.Similarity("diabetes treatment insulin dosage guidance for clinicians", query)
	unrelated := v.Similarity("cloud infrastructure deployment pipelines and monitoring", query)
	if relevant <= unrelated {
		t.Errorf("expected relevant text to outscore unrelated: %f <= %f", relevant, unrelated)
	}
}

func TestVectorizer_StopwordsExcluded(t *testing.T) {
	v := NewVectorizer()
	if err := v.Fit([]string{
		"the cat sat on the mat",
		"a dog ran in the park",
	}); err != nil {
		t.Fatalf("fit: %v", err)
	}
	// Shared stop words must not create similarity.
	sim := v.Similarity("the the the and of", "the and of with")
	if sim != 0 {
		t.Errorf("expected stop-word-only texts to score 0, got %f", sim)
	}
}

func TestVectorizer_SingleCharTokensIgnored(t *testing.T) {
	v := NewVectorizer()
	if err := v.Fit([]string{"x y z alpha beta", "alpha gamma delta"}); err != nil {
		t.Fatalf("fit: %v", err)
	}
	sim := v.Similarity("x y z", "x y z")
	if sim != 0 {
		t.Errorf("expected single-character tokens to vanish, got %f", sim)
	}
}

func TestVectorizer_BigramsContribute(t *testing.T) {
	v := NewVectorizer()
	if err := v.Fit([]string{
		"machine learning models",
		"learning machine operation",
	}); err != nil {
		t.Fatalf("fit: %v", err)
	}
	// Same unigrams, different adjacency: order must matter.
	same := v.Similarity("machine learning", "machine learning")
	flipped := v.Similarity("machine learning", "learning machine")
	if flipped >= same {
		t.Errorf("expected bigram order to lower similarity: %f >= %f", flipped, same)
	}
}

func TestVectorizer_MaxDocFreqPrunes(t *testing.T) {
	// A term present in every document exceeds the 0.95 cutoff and is
	// dropped from the vocabulary.
	docs := make([]string, 25)
	for i := range docs {
		docs[i] = fmt.Sprintf("ubiquitous term%d", i)
	}
	v := NewVectorizer()
	if err := v.Fit(docs); err != nil {
		t.Fatalf("fit: %v", err)
	}
	if _, ok := v.vocabulary["ubiquitous"]; ok {
		t.Error("expected term in every document to be pruned")
	}
	if _, ok := v.vocabulary["term3"]; !ok {
		t.Error("expected rare term to survive pruning")
	}
}

func TestVectorizer_Deterministic(t *testing.T) {
	docs := []string{
		"alpha beta gamma delta",
		"beta gamma epsilon zeta",
		"gamma delta eta theta",
	}
	query := "beta delta theta"

	var first float64
	for i := 0; i < 5; i++ {
		v := NewVectorizer()
		if err := v.Fit(docs); err != nil {
			t.Fatalf("fit: %v", err)
		}
		sim := v.Similarity(docs[0], query)
		if i == 0 {
			first = sim
		} else if sim != first {
			t.Fatalf("run %d: similarity %v differs from first run %v", i, sim, first)
		}
	}
}

func TestVectorizer_UnfittedTransformIsZero(t *testing.T) {
	v := NewVectorizer()
	vec := v.Transform("anything at all")
	if len(vec) != 0 {
		t.Errorf("expected empty vector from unfitted vectorizer, got %d dims", len(vec))
	}
}
