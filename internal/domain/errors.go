package domain

import "fmt"

// DomainError represents a domain-specific error
type DomainError struct {
	Code    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError creates a new DomainError
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     nil,
	}
}

// NewDomainErrorWithCause creates a new DomainError with an underlying cause
func NewDomainErrorWithCause(code, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common domain error codes
const (
	ErrCodeInvalidArgument       = "INVALID_ARGUMENT"
	ErrCodeInvalidConfiguration  = "INVALID_CONFIGURATION"
	ErrCodeEmptyContent          = "EMPTY_CONTENT"
	ErrCodeModelUnavailable      = "MODEL_UNAVAILABLE"
	ErrCodeConfigurationMismatch = "CONFIGURATION_MISMATCH"
	ErrCodeNotFound              = "NOT_FOUND"
	ErrCodeInternalError         = "INTERNAL_ERROR"
)

// Request validation errors
var (
	ErrEmptyQuestion = NewDomainError(ErrCodeInvalidArgument, "question must be a non-empty string")
	ErrInvalidTopK   = NewDomainError(ErrCodeInvalidArgument, "top_k must be between 1 and 10")
	ErrInvalidURL    = NewDomainError(ErrCodeInvalidArgument, "url must start with http:// or https://")
)

// Configuration errors
var (
	ErrOverlapTooLarge  = NewDomainError(ErrCodeInvalidConfiguration, "chunk overlap must be smaller than chunk size")
	ErrInvalidChunkSize = NewDomainError(ErrCodeInvalidConfiguration, "chunk size must be positive")
	ErrModelMismatch    = NewDomainError(ErrCodeConfigurationMismatch, "collection was indexed with a different embedding model")
)

// Pipeline errors
var (
	ErrNoPagesCrawled  = NewDomainError(ErrCodeEmptyContent, "no pages crawled, nothing to index")
	ErrNoChunksCreated = NewDomainError(ErrCodeEmptyContent, "no chunks created from crawled pages")
)

// Embedding errors
var (
	ErrModelUnavailable = NewDomainError(ErrCodeModelUnavailable, "embedding model is not available")
)
