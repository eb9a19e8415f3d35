package relevance

import (
	"errors"
	"math"
	"regexp"
	"sort"
	"strings"
)

const (
	// MaxVocabulary caps the fitted vocabulary size.
	MaxVocabulary = 5000

	// maxDocFreq excludes terms appearing in more than this fraction of
	// the fitted corpus.
	maxDocFreq = 0.95
)

var tokenPattern = regexp.MustCompile(`\b\w\w+\b`)

// Vectorizer is a TF-IDF vectorizer over unigrams and bigrams with
// English stop-word removal. Fit exactly once; Transform is read-only
// afterwards, so a fitted Vectorizer is safe for concurrent use.
type Vectorizer struct {
	vocabulary map[string]int
	idf        []float64
	fitted     bool
}

func NewVectorizer() *Vectorizer {
	return &Vectorizer{vocabulary: make(map[string]int)}
}

// Fitted reports whether Fit has succeeded.
func (v *Vectorizer) Fitted() bool { return v.fitted }

// Fit builds the vocabulary and document-frequency statistics from the
// corpus. Terms in more than 95% of documents are excluded; if more
// than MaxVocabulary terms survive, the most frequent win (ties broken
// alphabetically for determinism).
func (v *Vectorizer) Fit(docs []string) error {
	if len(docs) == 0 {
		return errors.New("empty corpus")
	}

	df := make(map[string]int)
	total := make(map[string]int)
	for _, doc := range docs {
		terms := ngrams(doc)
		seen := make(map[string]struct{}, len(terms))
		for _, t := range terms {
			total[t]++
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			df[t]++
		}
	}

	n := float64(len(docs))
	terms := make([]string, 0, len(df))
	for t, d := range df {
		if float64(d)/n > maxDocFreq {
			continue
		}
		terms = append(terms, t)
	}
	if len(terms) == 0 {
		return errors.New("no terms remain after pruning")
	}

	if len(terms) > MaxVocabulary {
		sort.Slice(terms, func(i, j int) bool {
			if total[terms[i]] != total[terms[j]] {
				return total[terms[i]] > total[terms[j]]
			}
			return terms[i] < terms[j]
		})
		terms = terms[:MaxVocabulary]
	}
	sort.Strings(terms)

	v.vocabulary = make(map[string]int, len(terms))
	v.idf = make([]float64, len(terms))
	for i, t := range terms {
		v.vocabulary[t] = i
		// Smoothed IDF.
		v.idf[i] = math.Log((1+n)/(1+float64(df[t]))) + 1.0
	}
	v.fitted = true
	return nil
}

// Transform produces the L2-normalized TF-IDF vector for text.
func (v *Vectorizer) Transform(text string) []float64 {
	vec := make([]float64, len(v.idf))
	if !v.fitted {
		return vec
	}
	for _, t := range ngrams(text) {
		if idx, ok := v.vocabulary[t]; ok {
			vec[idx]++
		}
	}
	var norm float64
	for i := range vec {
		vec[i] *= v.idf[i]
		norm += vec[i] * vec[i]
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for i := range vec {
			vec[i] /= norm
		}
	}
	return vec
}

// Similarity is the cosine similarity of the two texts' TF-IDF vectors.
func (v *Vectorizer) Similarity(a, b string) float64 {
	return dot(v.Transform(a), v.Transform(b))
}

// dot of two equal-length L2-normalized vectors is their cosine.
func dot(a, b []float64) float64 {
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

// ngrams tokenizes text into lowercase word tokens of two or more
// characters, drops stop words, and returns unigrams plus adjacent
// bigrams of the surviving tokens.
func ngrams(text string) []string {
	raw := tokenPattern.FindAllString(strings.ToLower(text), -1)
	tokens := raw[:0]
	for _, t := range raw {
		if _, stop := stopwords[t]; stop {
			continue
		}
		tokens = append(tokens, t)
	}
	if len(tokens) == 0 {
		return nil
	}
	out := make([]string, 0, 2*len(tokens)-1)
	out = append(out, tokens...)
	for i := 0; i+1 < len(tokens); i++ {
		out = append(out, tokens[i]+" "+tokens[i+1])
	}
	return out
}
