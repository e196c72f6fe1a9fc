package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/covalentlabs/webquill/internal/api"
	"github.com/covalentlabs/webquill/internal/domain"
	"github.com/covalentlabs/webquill/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockPipelineRunner struct {
	mock.Mock
}

func (m *MockPipelineRunner) Run(ctx context.Context, websiteURL string, maxPages int, delay time.Duration) (*service.PipelineResult, error) {
	args := m.Called(ctx, websiteURL, maxPages, delay)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.PipelineResult), args.Error(1)
}

type MockStatsProvider struct {
	mock.Mock
}

func (m *MockStatsProvider) Stats(ctx context.Context) (domain.CollectionStats, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.CollectionStats), args.Error(1)
}

func defaultIndexHandler(pipeline *MockPipelineRunner, stats *MockStatsProvider) *IndexHandler {
	return NewIndexHandler(pipeline, stats, IndexDefaults{
		WebsiteURL: "https://example.com",
		MaxPages:   50,
		Delay:      time.Second,
	})
}

func TestCrawl_UsesDefaultsForEmptyBody(t *testing.T) {
	pipeline := new(MockPipelineRunner)
	stats := new(MockStatsProvider)

	pipeline.On("Run", mock.Anything, "https://example.com", 50, time.Second).
		Return(&service.PipelineResult{PagesCrawled: 12, ChunksCreated: 87}, nil)
	stats.On("Stats", mock.Anything).Return(domain.CollectionStats{
		CollectionName: "rag_documents",
		TotalDocuments: 87,
	}, nil)

	handler := defaultIndexHandler(pipeline, stats)

	req := httptest.NewRequest(http.MethodPost, "/api/crawl", nil)
	rec := httptest.NewRecorder()

	handler.Crawl(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp CrawlResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, 12, resp.PagesCrawled)
	assert.Equal(t, 87, resp.ChunksCreated)
	assert.Equal(t, int64(87), resp.VectorDBStats.TotalDocuments)

	pipeline.AssertExpectations(t)
}

func TestCrawl_OverridesFromBody(t *testing.T) {
	pipeline := new(MockPipelineRunner)
	stats := new(MockStatsProvider)

	pipeline.On("Run", mock.Anything, "https://other.example", 5, 5*time.Second).
		Return(&service.PipelineResult{PagesCrawled: 5, ChunksCreated: 20}, nil)
	stats.On("Stats", mock.Anything).Return(domain.CollectionStats{}, nil)

	handler := defaultIndexHandler(pipeline, stats)

	body, _ := json.Marshal(CrawlRequest{URL: "https://other.example", MaxPages: 5, CrawlDelay: 5})
	req := httptest.NewRequest(http.MethodPost, "/api/crawl", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Crawl(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	pipeline.AssertExpectations(t)
}

func TestCrawl_AcceptsFractionalDelay(t *testing.T) {
	pipeline := new(MockPipelineRunner)
	stats := new(MockStatsProvider)

	pipeline.On("Run", mock.Anything, "https://other.example", 50, 500*time.Millisecond).
		Return(&service.PipelineResult{PagesCrawled: 1, ChunksCreated: 4}, nil)
	stats.On("Stats", mock.Anything).Return(domain.CollectionStats{}, nil)

	handler := defaultIndexHandler(pipeline, stats)

	body := []byte(`{"url":"https://other.example","crawl_delay":0.5}`)
	req := httptest.NewRequest(http.MethodPost, "/api/crawl", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Crawl(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	pipeline.AssertExpectations(t)
}

func TestCrawl_NoWebsiteConfigured(t *testing.T) {
	handler := NewIndexHandler(new(MockPipelineRunner), new(MockStatsProvider), IndexDefaults{})

	req := httptest.NewRequest(http.MethodPost, "/api/crawl", nil)
	rec := httptest.NewRecorder()

	handler.Crawl(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp api.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, domain.ErrCodeInvalidArgument, resp.Error.Code)
}

func TestCrawl_EmptyCrawlIsUnprocessable(t *testing.T) {
	pipeline := new(MockPipelineRunner)
	stats := new(MockStatsProvider)

	pipeline.On("Run", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, domain.ErrNoPagesCrawled)

	handler := defaultIndexHandler(pipeline, stats)

	req := httptest.NewRequest(http.MethodPost, "/api/crawl", nil)
	rec := httptest.NewRecorder()

	handler.Crawl(rec, req)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestCrawl_ModelMismatchConflicts(t *testing.T) {
	pipeline := new(MockPipelineRunner)
	stats := new(MockStatsProvider)

	pipeline.On("Run", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, domain.ErrModelMismatch)

	handler := defaultIndexHandler(pipeline, stats)

	req := httptest.NewRequest(http.MethodPost, "/api/crawl", nil)
	rec := httptest.NewRecorder()

	handler.Crawl(rec, req)
	assert.Equal(t, http.StatusConflict, rec.Code)
}
