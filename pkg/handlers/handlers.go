// Package handlers provides shared HTTP response helpers for domain handlers.
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// RespondJSON writes data as a JSON response with the given status code.
// Encoding failures are reported as a plain 500 since headers are already
// committed to JSON.
func RespondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, `{"error":"encoding response failed"}`, http.StatusInternalServerError)
	}
}

// RespondError logs the error and writes it as a JSON error body with the
// given status code.
func RespondError(w http.ResponseWriter, logger *slog.Logger, status int, err error) {
	logger.Error(
		"request failed",
		"status", status,
		"error", err,
	)

	RespondJSON(w, status, map[string]string{
		"error": err.Error(),
	})
}
