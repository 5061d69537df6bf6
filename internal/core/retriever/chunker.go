package retriever

import (
	"strings"
)

// sentenceDelim is the fixed sentence boundary used for retrieval chunking.
const sentenceDelim = ". "

// SplitSentences splits text into overlapping retrieval chunks along
// sentence-like boundaries. When the text has no more sentences than
// targetChunks, each sentence becomes its own chunk. Otherwise a window of
// sentences slides across the text with roughly one third of each window
// shared with its neighbor, so a sentence near a chunk edge stays retrievable
// in at least one chunk. Never returns an empty sequence for non-blank input.
func SplitSentences(text string, targetChunks int) []Chunk {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	if targetChunks <= 0 {
		targetChunks = 10
	}

	units := strings.Split(text, sentenceDelim)
	if len(units) <= targetChunks {
		chunks := make([]Chunk, 0, len(units))
		for _, u := range units {
			chunks = append(chunks, Chunk{Index: len(chunks), Text: u})
		}
		return chunks
	}

	chunkSize := len(units) / targetChunks
	if chunkSize < 3 {
		chunkSize = 3
	}
	overlap := chunkSize / 3
	if overlap < 1 {
		overlap = 1
	}
	step := chunkSize - overlap

	chunks := make([]Chunk, 0, targetChunks)
	for start := 0; start < len(units); start += step {
		end := start + chunkSize
		if end > len(units) {
			end = len(units)
		}
		window := strings.Join(units[start:end], sentenceDelim)
		if strings.TrimSpace(window) != "" {
			chunks = append(chunks, Chunk{Index: len(chunks), Text: window})
		}
		if end == len(units) {
			break
		}
	}
	return chunks
}

// SplitWords splits content into contiguous, non-overlapping parts by word
// count for quiz-question generation. Each part carries at least minWords
// words (default 100) so the generator always sees enough context. The whole
// text is returned as a single part when nothing else can be produced.
func SplitWords(text string, numParts int, minWords int) []string {
	if numParts <= 0 {
		numParts = 1
	}
	if minWords <= 0 {
		minWords = 100
	}

	words := strings.Fields(text)
	size := len(words) / numParts
	if size < minWords {
		size = minWords
	}

	var parts []string
	for i := 0; i < len(words); i += size {
		j := i + size
		if j > len(words) {
			j = len(words)
		}
		parts = append(parts, strings.Join(words[i:j], " "))
	}
	if len(parts) == 0 {
		return []string{text}
	}
	return parts
}
