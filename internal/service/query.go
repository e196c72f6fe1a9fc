package service

import (
	"context"
	"strings"

	"github.com/covalentlabs/webquill/internal/domain"
	"github.com/covalentlabs/webquill/internal/telemetry"
)

const (
	// DefaultTopK is the number of results returned when the caller does
	// not ask for a specific count.
	DefaultTopK = 5
	// MaxTopK bounds how many results a single query may request.
	MaxTopK = 10
)

// QueryService answers retrieval queries against the vector collection.
type QueryService struct {
	embedder EmbeddingClient
	store    VectorStore
}

func NewQueryService(embedder EmbeddingClient, store VectorStore) *QueryService {
	return &QueryService{embedder: embedder, store: store}
}

// AnswerQuery embeds the question and returns the topK closest chunks.
// topK of 0 means DefaultTopK; values outside [1, MaxTopK] are rejected.
func (s *QueryService) AnswerQuery(ctx context.Context, question string, topK int) ([]domain.SearchResult, error) {
	ctx, span := telemetry.StartSpan(ctx, "QueryService.AnswerQuery", telemetry.SpanAttributes{
		Operation: "ask",
	})
	defer span.End()

	question = strings.TrimSpace(question)
	if question == "" {
		return nil, domain.ErrEmptyQuestion
	}
	if topK == 0 {
		topK = DefaultTopK
	}
	if topK < 1 || topK > MaxTopK {
		return nil, domain.ErrInvalidTopK
	}

	embedding, err := s.embedder.GenerateEmbedding(ctx, question)
	if err != nil {
		span.SetError(err)
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeModelUnavailable, "failed to embed question", err)
	}

	results, err := s.store.Search(ctx, embedding, topK)
	if err != nil {
		span.SetError(err)
		return nil, err
	}
	return results, nil
}

// Stats reports collection statistics.
func (s *QueryService) Stats(ctx context.Context) (domain.CollectionStats, error) {
	return s.store.Stats(ctx)
}

// Clear removes every indexed record.
func (s *QueryService) Clear(ctx context.Context) error {
	ctx, span := telemetry.StartSpan(ctx, "QueryService.Clear", telemetry.SpanAttributes{
		Operation: "clear",
	})
	defer span.End()

	if err := s.store.Clear(ctx); err != nil {
		span.SetError(err)
		return err
	}
	return nil
}
