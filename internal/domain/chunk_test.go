package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChunkID_Stable(t *testing.T) {
	a := ChunkID("https://example.com/docs", 3)
	b := ChunkID("https://example.com/docs", 3)
	assert.Equal(t, a, b)
}

func TestChunkID_DistinctAcrossOrdinals(t *testing.T) {
	a := ChunkID("https://example.com/docs", 0)
	b := ChunkID("https://example.com/docs", 1)
	assert.NotEqual(t, a, b)
}

func TestChunkID_DistinctAcrossSources(t *testing.T) {
	a := ChunkID("https://example.com/docs", 0)
	b := ChunkID("https://example.com/pricing", 0)
	assert.NotEqual(t, a, b)
}

func TestNewChunk(t *testing.T) {
	c := NewChunk("https://example.com/faq", 2, "some cleaned text")

	assert.Equal(t, ChunkID("https://example.com/faq", 2), c.ID)
	assert.Equal(t, "some cleaned text", c.Content)
	assert.Equal(t, "https://example.com/faq", c.SourceURL)
	assert.Equal(t, 2, c.Ordinal)
}

func TestValidateRecord(t *testing.T) {
	valid := &Record{
		ID:        "abc-0001",
		Content:   "content",
		SourceURL: "https://example.com",
		Embedding: make([]float32, 4),
	}

	tests := []struct {
		name       string
		record     *Record
		dimensions int
		wantErr    bool
	}{
		{"valid", valid, 4, false},
		{"nil record", nil, 4, true},
		{"missing id", &Record{Content: "x", Embedding: make([]float32, 4)}, 4, true},
		{"missing content", &Record{ID: "x", Embedding: make([]float32, 4)}, 4, true},
		{"wrong dimensions", valid, 8, true},
		{"dimension check skipped", valid, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRecord(tt.record, tt.dimensions)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
