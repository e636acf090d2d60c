package knowledge

import (
	"errors"
	"net/http"
)

// Domain errors for knowledge operations.
var (
	ErrNotFound     = errors.New("knowledge document not found")
	ErrDuplicate    = errors.New("knowledge document already exists")
	ErrEmptyContent = errors.New("content is empty after cleaning")
	ErrInvalidType  = errors.New("doc_type must be code_snippet, documentation, example, or best_practice")
	ErrEmbedFailed  = errors.New("embedding failed")
)

// MapHTTPStatus maps knowledge domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrEmptyContent) || errors.Is(err, ErrInvalidType) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrEmbedFailed) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
