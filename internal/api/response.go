package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/covalentlabs/webquill/internal/domain"
)

// ErrorBody carries a stable machine-readable code plus a human-readable
// message.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse represents an error API response
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// JSON writes a JSON response with the given status code
func JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// Error writes an error JSON response
func Error(w http.ResponseWriter, status int, code, message string) {
	JSON(w, status, ErrorResponse{Error: ErrorBody{Code: code, Message: message}})
}

// DomainErrorToHTTP maps domain error codes to HTTP status codes
func DomainErrorToHTTP(err error) int {
	if err == nil {
		return http.StatusOK
	}

	var domainErr *domain.DomainError
	if !errors.As(err, &domainErr) {
		return http.StatusInternalServerError
	}

	switch domainErr.Code {
	case domain.ErrCodeInvalidArgument, domain.ErrCodeInvalidConfiguration:
		return http.StatusBadRequest
	case domain.ErrCodeEmptyContent:
		return http.StatusUnprocessableEntity
	case domain.ErrCodeConfigurationMismatch:
		return http.StatusConflict
	case domain.ErrCodeModelUnavailable:
		return http.StatusServiceUnavailable
	case domain.ErrCodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// HandleError writes an appropriate error response based on the error type
func HandleError(w http.ResponseWriter, err error) {
	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		Error(w, DomainErrorToHTTP(err), domainErr.Code, domainErr.Message)
		return
	}
	Error(w, http.StatusInternalServerError, domain.ErrCodeInternalError, "internal server error")
}
