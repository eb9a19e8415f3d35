package relevance

// stopwords is the English stop-word set removed before n-gram
// construction.
var stopwords = func() map[string]struct{} {
	words := []string{
		"a", "about", "above", "after", "again", "all", "an", "and",
		"are", "as", "at", "be", "been", "before", "being", "below",
		"between", "both", "but", "by", "can", "could", "did", "do",
		"does", "down", "during", "else", "few", "for", "from",
		"further", "had", "has", "have", "he", "her", "here", "hers",
		"him", "his", "how", "if", "in", "into", "is", "it", "its",
		"just", "may", "me", "might", "more", "most", "must", "my",
		"no", "nor", "not", "now", "of", "off", "on", "once", "only",
		"or", "other", "our", "ours", "out", "over", "own", "same",
		"she", "should", "so", "some", "such", "than", "that", "the",
		"their", "theirs", "them", "then", "there", "these", "they",
		"this", "those", "through", "to", "too", "under", "until", "up",
		"very", "was", "we", "were", "what", "when", "where", "which",
		"while", "who", "whom", "why", "will", "with", "would", "you",
		"your", "yours",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}()
