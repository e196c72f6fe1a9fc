package service

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/covalentlabs/webquill/internal/domain"
	"github.com/covalentlabs/webquill/internal/telemetry"
	"github.com/covalentlabs/webquill/internal/textproc"
)

// MinPageLength is the minimum cleaned-text length for a page to be
// worth indexing. Shorter pages are typically redirects or stubs.
const MinPageLength = 50

// PipelineResult summarizes one completed indexing run.
type PipelineResult struct {
	PagesCrawled  int
	ChunksCreated int
}

// PipelineService runs the crawl, clean, chunk, embed, store pipeline.
// Each stage gates the next: an empty crawl stops before chunking, an
// embedding failure stops before any write, so the collection is never
// left with records from a partially embedded run.
type PipelineService struct {
	crawler  Crawler
	embedder EmbeddingClient
	store    VectorStore
	archiver SnapshotArchiver
	chunkCfg textproc.ChunkConfig

	// Serializes indexing runs; concurrent requests wait their turn.
	mu sync.Mutex
}

// NewPipelineService creates a PipelineService. archiver may be nil, in
// which case crawl snapshots are not archived.
func NewPipelineService(crawler Crawler, embedder EmbeddingClient, store VectorStore, chunkCfg textproc.ChunkConfig) *PipelineService {
	return &PipelineService{
		crawler:  crawler,
		embedder: embedder,
		store:    store,
		chunkCfg: chunkCfg,
	}
}

// WithArchiver enables snapshot archival for subsequent runs.
func (s *PipelineService) WithArchiver(archiver SnapshotArchiver) *PipelineService {
	s.archiver = archiver
	return s
}

// Run executes a full indexing pass over the given website. Re-running
// against the same site replaces records chunk-for-chunk rather than
// duplicating them.
func (s *PipelineService) Run(ctx context.Context, websiteURL string, maxPages int, delay time.Duration) (*PipelineResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, span := telemetry.StartSpan(ctx, "PipelineService.Run", telemetry.SpanAttributes{
		SourceURL: websiteURL,
		Operation: "index",
	})
	defer span.End()

	if err := s.store.EnsureCollection(ctx, s.embedder.Model(), s.embedder.Dimensions()); err != nil {
		span.SetError(err)
		return nil, err
	}

	pages, err := s.crawler.Crawl(ctx, websiteURL, maxPages, delay)
	if err != nil {
		span.SetError(err)
		return nil, err
	}

	if len(pages) == 0 {
		return nil, domain.ErrNoPagesCrawled
	}

	chunks := s.chunkPages(pages)
	if len(chunks) == 0 {
		return nil, domain.ErrNoChunksCreated
	}
	log.Printf("pipeline: crawled %d pages, created %d chunks", len(pages), len(chunks))

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Content
	}
	embeddings, err := s.embedder.GenerateEmbeddings(ctx, texts)
	if err != nil {
		span.SetError(err)
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeModelUnavailable, "failed to generate embeddings", err)
	}

	records := make([]domain.Record, len(chunks))
	for i, chunk := range chunks {
		records[i] = domain.Record{
			ID:        chunk.ID,
			Content:   chunk.Content,
			SourceURL: chunk.SourceURL,
			Embedding: embeddings[i],
		}
	}
	if err := s.store.AddDocuments(ctx, records); err != nil {
		span.SetError(err)
		return nil, err
	}

	if s.archiver != nil {
		s.archiveSnapshot(ctx, websiteURL, pages)
	}

	return &PipelineResult{
		PagesCrawled:  len(pages),
		ChunksCreated: len(chunks),
	}, nil
}

// chunkPages cleans each page and splits it into chunks with stable ids.
// Pages whose cleaned text is too short are skipped.
func (s *PipelineService) chunkPages(pages []domain.Page) []domain.Chunk {
	var chunks []domain.Chunk
	for _, page := range pages {
		cleaned := textproc.Clean(page.Text)
		if len(cleaned) < MinPageLength {
			continue
		}

		pieces, err := textproc.Chunk(cleaned, s.chunkCfg)
		if err != nil {
			log.Printf("pipeline: skipping %s: %v", page.URL, err)
			continue
		}
		for i, piece := range pieces {
			chunks = append(chunks, domain.NewChunk(page.URL, i, piece))
		}
	}
	return chunks
}

// archiveSnapshot is best effort: an archival failure never fails the run.
func (s *PipelineService) archiveSnapshot(ctx context.Context, websiteURL string, pages []domain.Page) {
	key, err := s.archiver.ArchiveSnapshot(ctx, Snapshot{
		WebsiteURL: websiteURL,
		CreatedAt:  time.Now().UTC(),
		PageCount:  len(pages),
		Pages:      pages,
	})
	if err != nil {
		log.Printf("pipeline: snapshot archive failed: %v", err)
		return
	}
	log.Printf("pipeline: archived crawl snapshot to %s", key)
}
