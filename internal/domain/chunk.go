package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Chunk is a bounded-length substring of cleaned page text, the atomic
// unit of embedding and retrieval. Immutable once created.
type Chunk struct {
	ID        string
	Content   string
	SourceURL string
	Ordinal   int
}

// NewChunk creates a Chunk with an ID derived from its source URL and
// ordinal, so re-indexing the same page yields the same ids.
func NewChunk(sourceURL string, ordinal int, content string) Chunk {
	return Chunk{
		ID:        ChunkID(sourceURL, ordinal),
		Content:   content,
		SourceURL: sourceURL,
		Ordinal:   ordinal,
	}
}

// ChunkID derives a stable chunk identifier from the source URL and the
// chunk's position within that page.
func ChunkID(sourceURL string, ordinal int) string {
	sum := sha256.Sum256([]byte(sourceURL))
	return fmt.Sprintf("%s-%04d", hex.EncodeToString(sum[:6]), ordinal)
}

// Record is a persisted chunk: content plus its embedding vector.
// Records are created at index time and never mutated; re-indexing
// replaces records with matching ids.
type Record struct {
	ID        string
	Content   string
	SourceURL string
	Embedding []float32
}

// SearchResult is one ranked item returned by a similarity search.
// Rank is 1-based ascending by distance; lower distance means a closer
// semantic match.
type SearchResult struct {
	Rank      int     `json:"rank"`
	Content   string  `json:"content"`
	SourceURL string  `json:"source_url"`
	Distance  float64 `json:"distance"`
}

// CollectionStats describes the persisted vector collection.
type CollectionStats struct {
	CollectionName string `json:"collection_name"`
	TotalDocuments int64  `json:"total_documents"`
}

// ValidateRecord validates a Record instance
func ValidateRecord(r *Record, dimensions int) error {
	if r == nil {
		return fmt.Errorf("record cannot be nil")
	}
	if r.ID == "" {
		return fmt.Errorf("record ID is required")
	}
	if r.Content == "" {
		return fmt.Errorf("record content is required")
	}
	if dimensions > 0 && len(r.Embedding) != dimensions {
		return fmt.Errorf("record embedding has %d dimensions, expected %d", len(r.Embedding), dimensions)
	}
	return nil
}
