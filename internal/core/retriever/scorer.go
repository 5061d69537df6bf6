package retriever

import (
	"strings"
)

// keywordWeight is the weight of the substring-coverage bonus relative to the
// Jaccard term.
const keywordWeight = 0.5

// Score computes the lexical relevance of a chunk to a query: Jaccard
// similarity over lower-cased word sets plus a weighted bonus for query words
// that appear as substrings anywhere in the chunk. Purely lexical, so every
// score is reproducible and explainable from the matched words.
func Score(query, chunk string) float64 {
	queryWords := tokenSet(query)
	chunkWords := tokenSet(chunk)
	return jaccard(queryWords, chunkWords) + keywordWeight*keywordCoverage(queryWords, chunk)
}

// tokenSet lower-cases and whitespace-tokenizes text into a word set,
// collapsing duplicates.
func tokenSet(text string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range strings.Fields(strings.ToLower(text)) {
		set[w] = struct{}{}
	}
	return set
}

// jaccard returns intersection size over union size, or 0 when the union is
// empty.
func jaccard(a, b map[string]struct{}) float64 {
	union := len(b)
	inter := 0
	for w := range a {
		if _, ok := b[w]; ok {
			inter++
		} else {
			union++
		}
	}
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

// keywordCoverage returns the fraction of query words found as a substring of
// the lower-cased chunk text, or 0 when the query has no words.
func keywordCoverage(queryWords map[string]struct{}, chunk string) float64 {
	if len(queryWords) == 0 {
		return 0
	}
	lower := strings.ToLower(chunk)
	found := 0
	for w := range queryWords {
		if strings.Contains(lower, w) {
			found++
		}
	}
	return float64(found) / float64(len(queryWords))
}
