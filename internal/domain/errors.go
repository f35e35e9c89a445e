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
	ErrCodeValidation        = "VALIDATION_ERROR"
	ErrCodeNotFound          = "NOT_FOUND"
	ErrCodeAlreadyExists     = "ALREADY_EXISTS"
	ErrCodeDimensionMismatch = "DIMENSION_MISMATCH"
	ErrCodeSearchFailed      = "SEARCH_FAILED"
	ErrCodeEmbeddingFailed   = "EMBEDDING_FAILED"
	ErrCodeContextBuild      = "CONTEXT_BUILD_FAILED"
	ErrCodeInternalError     = "INTERNAL_ERROR"
)

// Validation errors
var (
	ErrInvalidChunkIndex    = NewDomainError(ErrCodeValidation, "chunk index cannot be negative")
	ErrMissingRequiredField = NewDomainError(ErrCodeValidation, "missing required field")
)

// Not found errors
var (
	ErrKnowledgeBaseNotFound = NewDomainError(ErrCodeNotFound, "knowledge base not found")
	ErrDocumentNotFound      = NewDomainError(ErrCodeNotFound, "document not found")
	ErrChunkNotFound         = NewDomainError(ErrCodeNotFound, "chunk not found")
	ErrAssignmentNotFound    = NewDomainError(ErrCodeNotFound, "knowledge base assignment not found")
)

// Already exists errors
var (
	ErrKnowledgeBaseAlreadyExists = NewDomainError(ErrCodeAlreadyExists, "knowledge base already exists")
	ErrAssignmentAlreadyExists    = NewDomainError(ErrCodeAlreadyExists, "knowledge base assignment already exists")
)

// ErrDimensionMismatch is returned by the similarity kernel when two non-empty
// vectors have different lengths.
var ErrDimensionMismatch = NewDomainError(ErrCodeDimensionMismatch, "embedding vectors have mismatched dimensions")

// NewSearchFailure wraps an error from the search path. It is only produced
// after both the native and the brute-force path have failed.
func NewSearchFailure(err error) *DomainError {
	return NewDomainErrorWithCause(ErrCodeSearchFailed, "similarity search failed", err)
}

// NewEmbeddingFailure wraps an error from the embedding provider.
func NewEmbeddingFailure(err error) *DomainError {
	return NewDomainErrorWithCause(ErrCodeEmbeddingFailed, "embedding generation failed", err)
}

// NewContextBuildFailure wraps any error encountered while building a
// retrieval context for an agent.
func NewContextBuildFailure(err error) *DomainError {
	return NewDomainErrorWithCause(ErrCodeContextBuild, "failed to build retrieval context", err)
}
