package projects

import (
	"errors"
	"net/http"
)

// Domain errors for project operations.
var (
	ErrNotFound        = errors.New("project not found")
	ErrFileNotFound    = errors.New("project file not found")
	ErrDuplicate       = errors.New("project name already exists")
	ErrInvalidName     = errors.New("project name yields an empty slug")
	ErrInvalidFilename = errors.New("filename must not be empty or contain path separators")
	ErrNoFiles         = errors.New("project must contain at least one file")
)

// MapHTTPStatus maps project domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrFileNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrInvalidName) ||
		errors.Is(err, ErrInvalidFilename) ||
		errors.Is(err, ErrNoFiles) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
