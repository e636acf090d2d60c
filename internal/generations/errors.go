package generations

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/foundry/internal/workflow"
)

// Domain errors for generation operations.
var (
	ErrNotFound       = errors.New("generation not found")
	ErrDuplicate      = errors.New("generation already exists")
	ErrEmptyPrompt    = errors.New("prompt must not be empty")
	ErrInvalidStatus  = errors.New("status must be pending, running, review, complete, or failed")
	ErrStatusConflict = errors.New("operation not valid for the generation's current status")
)

// MapHTTPStatus maps generation domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrStatusConflict) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrEmptyPrompt) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrInvalidStatus) {
		return http.StatusBadRequest
	}
	if errors.Is(err, workflow.ErrInvalidTarget) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
