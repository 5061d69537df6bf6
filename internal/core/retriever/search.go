package retriever

import (
	"sort"
)

// Index holds the ordered chunk sequence for a single document and answers
// top-k relevance queries over it. Built once per processed document; safe
// for concurrent reads since it is never mutated after construction.
type Index struct {
	chunks []Chunk
}

// NewIndex builds an index over the given chunk sequence.
func NewIndex(chunks []Chunk) *Index {
	return &Index{chunks: chunks}
}

// Len returns the number of chunks in the index.
func (idx *Index) Len() int {
	if idx == nil {
		return 0
	}
	return len(idx.chunks)
}

// Search scores every chunk against the query and returns at most topK
// results ordered by descending score, ties kept in original chunk order.
// Results with zero score are dropped, so fewer than topK entries may come
// back; an empty slice means no grounding is available and is not an error.
func (idx *Index) Search(query string, topK int) []Result {
	if idx == nil || len(idx.chunks) == 0 {
		return []Result{}
	}
	if topK <= 0 {
		topK = 3
	}

	scored := make([]Result, 0, len(idx.chunks))
	for _, ch := range idx.chunks {
		scored = append(scored, Result{
			ChunkIndex: ch.Index,
			Text:       ch.Text,
			Score:      Score(query, ch.Text),
		})
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if len(scored) > topK {
		scored = scored[:topK]
	}
	results := make([]Result, 0, len(scored))
	for _, r := range scored {
		if r.Score <= 0 {
			continue
		}
		results = append(results, r)
	}
	return results
}
