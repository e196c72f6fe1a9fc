package service

import (
	"context"
	"time"

	"github.com/covalentlabs/webquill/internal/domain"
	"github.com/stretchr/testify/mock"
)

// MockCrawler is a mock implementation of Crawler
type MockCrawler struct {
	mock.Mock
}

func (m *MockCrawler) Crawl(ctx context.Context, seedURL string, maxPages int, delay time.Duration) ([]domain.Page, error) {
	args := m.Called(ctx, seedURL, maxPages, delay)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Page), args.Error(1)
}

// MockEmbeddingClient is a mock implementation of EmbeddingClient
type MockEmbeddingClient struct {
	mock.Mock
}

func (m *MockEmbeddingClient) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]float32), args.Error(1)
}

func (m *MockEmbeddingClient) GenerateEmbeddings(ctx context.Context, texts []string) ([][]float32, error) {
	args := m.Called(ctx, texts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([][]float32), args.Error(1)
}

func (m *MockEmbeddingClient) Model() string {
	return "test-model"
}

func (m *MockEmbeddingClient) Dimensions() int {
	return 3
}

// MockVectorStore is a mock implementation of VectorStore
type MockVectorStore struct {
	mock.Mock
}

func (m *MockVectorStore) EnsureCollection(ctx context.Context, modelID string, dimensions int) error {
	args := m.Called(ctx, modelID, dimensions)
	return args.Error(0)
}

func (m *MockVectorStore) AddDocuments(ctx context.Context, records []domain.Record) error {
	args := m.Called(ctx, records)
	return args.Error(0)
}

func (m *MockVectorStore) Search(ctx context.Context, embedding []float32, topK int) ([]domain.SearchResult, error) {
	args := m.Called(ctx, embedding, topK)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SearchResult), args.Error(1)
}

func (m *MockVectorStore) Stats(ctx context.Context) (domain.CollectionStats, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.CollectionStats), args.Error(1)
}

func (m *MockVectorStore) Clear(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockSnapshotArchiver is a mock implementation of SnapshotArchiver
type MockSnapshotArchiver struct {
	mock.Mock
}

func (m *MockSnapshotArchiver) ArchiveSnapshot(ctx context.Context, snapshot Snapshot) (string, error) {
	args := m.Called(ctx, snapshot)
	return args.String(0), args.Error(1)
}
