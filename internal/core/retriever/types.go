package retriever

// Chunk is a contiguous, possibly overlapping slice of document text used as
// a retrieval unit. The ordered sequence is produced once per document and
// never mutated.
type Chunk struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

// Result represents a single scored chunk match for a query.
type Result struct {
	ChunkIndex int     `json:"chunk_index"`
	Text       string  `json:"text"`
	Score      float64 `json:"score"`
}
