package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/covalentlabs/webquill/internal/api"
	"github.com/covalentlabs/webquill/internal/domain"
)

type QueryService interface {
	AnswerQuery(ctx context.Context, question string, topK int) ([]domain.SearchResult, error)
	Stats(ctx context.Context) (domain.CollectionStats, error)
	Clear(ctx context.Context) error
}

type QueryHandler struct {
	svc QueryService
}

func NewQueryHandler(svc QueryService) *QueryHandler {
	return &QueryHandler{svc: svc}
}

type AskRequest struct {
	Question string `json:"question"`
	TopK     int    `json:"top_k,omitempty"`
}

type AskResponse struct {
	Question           string                `json:"question"`
	RetrievedDocuments []domain.SearchResult `json:"retrieved_documents"`
	TotalResults       int                   `json:"total_results"`
	Status             string                `json:"status"`
}

type StatsResponse struct {
	Status string                 `json:"status"`
	Stats  domain.CollectionStats `json:"stats"`
}

type ClearResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Ask answers a retrieval query with the closest indexed chunks.
func (h *QueryHandler) Ask(w http.ResponseWriter, r *http.Request) {
	var req AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, domain.ErrCodeInvalidArgument, "invalid JSON body")
		return
	}

	results, err := h.svc.AnswerQuery(r.Context(), req.Question, req.TopK)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	if results == nil {
		results = []domain.SearchResult{}
	}
	api.JSON(w, http.StatusOK, AskResponse{
		Question:           req.Question,
		RetrievedDocuments: results,
		TotalResults:       len(results),
		Status:             "success",
	})
}

// Stats reports collection statistics.
func (h *QueryHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Stats(r.Context())
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.JSON(w, http.StatusOK, StatsResponse{
		Status: "success",
		Stats:  stats,
	})
}

// Clear removes every indexed record from the collection.
func (h *QueryHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Clear(r.Context()); err != nil {
		api.HandleError(w, err)
		return
	}

	api.JSON(w, http.StatusOK, ClearResponse{
		Status:  "success",
		Message: "collection cleared",
	})
}
