package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/covalentlabs/webquill/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDomainErrorToHTTP(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, http.StatusOK},
		{"invalid argument", domain.ErrEmptyQuestion, http.StatusBadRequest},
		{"invalid configuration", domain.ErrOverlapTooLarge, http.StatusBadRequest},
		{"empty content", domain.ErrNoPagesCrawled, http.StatusUnprocessableEntity},
		{"configuration mismatch", domain.ErrModelMismatch, http.StatusConflict},
		{"model unavailable", domain.ErrModelUnavailable, http.StatusServiceUnavailable},
		{"not found", domain.NewDomainError(domain.ErrCodeNotFound, "gone"), http.StatusNotFound},
		{"plain error", errors.New("boom"), http.StatusInternalServerError},
		{"wrapped domain error", domain.NewDomainErrorWithCause(domain.ErrCodeModelUnavailable, "embed", errors.New("api")), http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DomainErrorToHTTP(tt.err))
		})
	}
}

func TestHandleError_DomainError(t *testing.T) {
	rec := httptest.NewRecorder()
	HandleError(rec, domain.ErrEmptyQuestion)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, domain.ErrCodeInvalidArgument, resp.Error.Code)
	assert.Equal(t, "question must be a non-empty string", resp.Error.Message)
}

func TestHandleError_PlainErrorIsNotLeaked(t *testing.T) {
	rec := httptest.NewRecorder()
	HandleError(rec, errors.New("pq: connection refused at 10.0.0.7"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, domain.ErrCodeInternalError, resp.Error.Code)
	assert.NotContains(t, resp.Error.Message, "10.0.0.7")
}
