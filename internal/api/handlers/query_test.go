package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/covalentlabs/webquill/internal/api"
	"github.com/covalentlabs/webquill/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockQueryService struct {
	mock.Mock
}

func (m *MockQueryService) AnswerQuery(ctx context.Context, question string, topK int) ([]domain.SearchResult, error) {
	args := m.Called(ctx, question, topK)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SearchResult), args.Error(1)
}

func (m *MockQueryService) Stats(ctx context.Context) (domain.CollectionStats, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.CollectionStats), args.Error(1)
}

func (m *MockQueryService) Clear(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func TestAsk_Success(t *testing.T) {
	svc := new(MockQueryService)
	svc.On("AnswerQuery", mock.Anything, "how do I reset my password?", 3).Return([]domain.SearchResult{
		{Rank: 1, Content: "go to settings", SourceURL: "https://example.com/docs", Distance: 0.1},
		{Rank: 2, Content: "click forgot password", SourceURL: "https://example.com/faq", Distance: 0.3},
	}, nil)

	handler := NewQueryHandler(svc)

	body, _ := json.Marshal(AskRequest{Question: "how do I reset my password?", TopK: 3})
	req := httptest.NewRequest(http.MethodPost, "/api/ask", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Ask(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp AskResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, "how do I reset my password?", resp.Question)
	assert.Equal(t, 2, resp.TotalResults)
	require.Len(t, resp.RetrievedDocuments, 2)
	assert.Equal(t, 1, resp.RetrievedDocuments[0].Rank)
	assert.Equal(t, "https://example.com/docs", resp.RetrievedDocuments[0].SourceURL)
}

func TestAsk_EmptyQuestion(t *testing.T) {
	svc := new(MockQueryService)
	svc.On("AnswerQuery", mock.Anything, "", 0).Return(nil, domain.ErrEmptyQuestion)

	handler := NewQueryHandler(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/ask", bytes.NewReader([]byte(`{}`)))
	rec := httptest.NewRecorder()

	handler.Ask(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp api.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, domain.ErrCodeInvalidArgument, resp.Error.Code)
}

func TestAsk_MalformedBody(t *testing.T) {
	handler := NewQueryHandler(new(MockQueryService))

	req := httptest.NewRequest(http.MethodPost, "/api/ask", bytes.NewReader([]byte(`{"question":`)))
	rec := httptest.NewRecorder()

	handler.Ask(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAsk_ModelUnavailable(t *testing.T) {
	svc := new(MockQueryService)
	svc.On("AnswerQuery", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, domain.NewDomainError(domain.ErrCodeModelUnavailable, "embedding model is not available"))

	handler := NewQueryHandler(svc)

	body, _ := json.Marshal(AskRequest{Question: "anything"})
	req := httptest.NewRequest(http.MethodPost, "/api/ask", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Ask(rec, req)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestAsk_EmptyCollectionReturnsEmptyList(t *testing.T) {
	svc := new(MockQueryService)
	svc.On("AnswerQuery", mock.Anything, "anything", 0).Return([]domain.SearchResult{}, nil)

	handler := NewQueryHandler(svc)

	body, _ := json.Marshal(AskRequest{Question: "anything"})
	req := httptest.NewRequest(http.MethodPost, "/api/ask", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Ask(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp AskResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 0, resp.TotalResults)
	assert.NotNil(t, resp.RetrievedDocuments)
}

func TestStats_Success(t *testing.T) {
	svc := new(MockQueryService)
	svc.On("Stats", mock.Anything).Return(domain.CollectionStats{
		CollectionName: "rag_documents",
		TotalDocuments: 128,
	}, nil)

	handler := NewQueryHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
	rec := httptest.NewRecorder()

	handler.Stats(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp StatsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, "rag_documents", resp.Stats.CollectionName)
	assert.Equal(t, int64(128), resp.Stats.TotalDocuments)
}

func TestClear_Success(t *testing.T) {
	svc := new(MockQueryService)
	svc.On("Clear", mock.Anything).Return(nil)

	handler := NewQueryHandler(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/clear", nil)
	rec := httptest.NewRecorder()

	handler.Clear(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp ClearResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, "collection cleared", resp.Message)
}
