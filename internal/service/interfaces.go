package service

import (
	"context"
	"time"

	"github.com/covalentlabs/webquill/internal/domain"
)

// Crawler fetches same-domain pages starting from a seed URL.
type Crawler interface {
	Crawl(ctx context.Context, seedURL string, maxPages int, delay time.Duration) ([]domain.Page, error)
}

// EmbeddingClient generates embedding vectors for texts.
type EmbeddingClient interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
	GenerateEmbeddings(ctx context.Context, texts []string) ([][]float32, error)
	Model() string
	Dimensions() int
}

// VectorStore is the persistent similarity-searchable chunk collection.
// Implemented by the embedded SQLite store and the pgvector repository.
type VectorStore interface {
	EnsureCollection(ctx context.Context, modelID string, dimensions int) error
	AddDocuments(ctx context.Context, records []domain.Record) error
	Search(ctx context.Context, embedding []float32, topK int) ([]domain.SearchResult, error)
	Stats(ctx context.Context) (domain.CollectionStats, error)
	Clear(ctx context.Context) error
}

// Snapshot is an archival copy of one crawl's extracted pages.
type Snapshot struct {
	WebsiteURL string        `json:"website_url"`
	CreatedAt  time.Time     `json:"created_at"`
	PageCount  int           `json:"page_count"`
	Pages      []domain.Page `json:"pages"`
}

// SnapshotArchiver stores crawl snapshots in object storage.
type SnapshotArchiver interface {
	ArchiveSnapshot(ctx context.Context, snapshot Snapshot) (string, error)
}
