package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/covalentlabs/webquill/internal/api"
	"github.com/covalentlabs/webquill/internal/domain"
	"github.com/covalentlabs/webquill/internal/service"
)

type PipelineRunner interface {
	Run(ctx context.Context, websiteURL string, maxPages int, delay time.Duration) (*service.PipelineResult, error)
}

type StatsProvider interface {
	Stats(ctx context.Context) (domain.CollectionStats, error)
}

// IndexDefaults are used when a crawl request leaves fields unset.
type IndexDefaults struct {
	WebsiteURL string
	MaxPages   int
	Delay      time.Duration
}

type IndexHandler struct {
	pipeline PipelineRunner
	stats    StatsProvider
	defaults IndexDefaults
}

func NewIndexHandler(pipeline PipelineRunner, stats StatsProvider, defaults IndexDefaults) *IndexHandler {
	return &IndexHandler{pipeline: pipeline, stats: stats, defaults: defaults}
}

type CrawlRequest struct {
	URL        string  `json:"url,omitempty"`
	MaxPages   int     `json:"max_pages,omitempty"`
	CrawlDelay float64 `json:"crawl_delay,omitempty"`
}

type CrawlResponse struct {
	Status        string                 `json:"status"`
	PagesCrawled  int                    `json:"pages_crawled"`
	ChunksCreated int                    `json:"chunks_created"`
	VectorDBStats domain.CollectionStats `json:"vector_db_stats"`
}

// Crawl triggers a full indexing run. The request body is optional;
// omitted fields fall back to the configured defaults.
func (h *IndexHandler) Crawl(w http.ResponseWriter, r *http.Request) {
	var req CrawlRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		api.Error(w, http.StatusBadRequest, domain.ErrCodeInvalidArgument, "invalid JSON body")
		return
	}

	websiteURL := req.URL
	if websiteURL == "" {
		websiteURL = h.defaults.WebsiteURL
	}
	if websiteURL == "" {
		api.Error(w, http.StatusBadRequest, domain.ErrCodeInvalidArgument, "url is required")
		return
	}

	maxPages := req.MaxPages
	if maxPages <= 0 {
		maxPages = h.defaults.MaxPages
	}

	delay := h.defaults.Delay
	if req.CrawlDelay > 0 {
		delay = time.Duration(req.CrawlDelay * float64(time.Second))
	}

	result, err := h.pipeline.Run(r.Context(), websiteURL, maxPages, delay)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	stats, err := h.stats.Stats(r.Context())
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.JSON(w, http.StatusOK, CrawlResponse{
		Status:        "success",
		PagesCrawled:  result.PagesCrawled,
		ChunksCreated: result.ChunksCreated,
		VectorDBStats: stats,
	})
}
