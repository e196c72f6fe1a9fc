package jobs

import (
	"context"
	"log"
	"time"

	"github.com/covalentlabs/webquill/internal/service"
)

// Indexer runs a full indexing pass over a website
type Indexer interface {
	Run(ctx context.Context, websiteURL string, maxPages int, delay time.Duration) (*service.PipelineResult, error)
}

// ReindexTask re-crawls the configured website so the collection tracks
// content changes. Chunk ids are stable, so each pass replaces stale
// records instead of accumulating duplicates.
type ReindexTask struct {
	indexer    Indexer
	websiteURL string
	maxPages   int
	delay      time.Duration
}

// NewReindexTask creates a new ReindexTask instance
func NewReindexTask(indexer Indexer, websiteURL string, maxPages int, delay time.Duration) *ReindexTask {
	return &ReindexTask{
		indexer:    indexer,
		websiteURL: websiteURL,
		maxPages:   maxPages,
		delay:      delay,
	}
}

// Run implements the Task interface
func (t *ReindexTask) Run(ctx context.Context) error {
	result, err := t.indexer.Run(ctx, t.websiteURL, t.maxPages, t.delay)
	if err != nil {
		return err
	}

	log.Printf("reindex: %d pages crawled, %d chunks stored", result.PagesCrawled, result.ChunksCreated)
	return nil
}
