package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/alexanderramin/mindsync/internal/assessment"
	"github.com/alexanderramin/mindsync/internal/conversation"
	"github.com/alexanderramin/mindsync/internal/observability"
	"github.com/alexanderramin/mindsync/internal/repository"
)

// maxBodyBytes bounds request bodies; chat messages are short.
const maxBodyBytes = 64 << 10

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// writeServiceError maps service errors to status codes. Unexpected errors
// are logged and reported without detail.
func writeServiceError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "session not found")
	case errors.Is(err, assessment.ErrScreeningNotFound):
		writeError(w, http.StatusNotFound, "screening not found or expired")
	case errors.Is(err, conversation.ErrEmptyMessage):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		observability.LoggerFromContext(r.Context(), logger).ErrorContext(r.Context(), "request_failed", "error", err.Error())
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// queryLimit reads ?limit=N, falling back to def for missing or bad values.
func queryLimit(r *http.Request, def int) int {
	n, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || n <= 0 {
		return def
	}
	return n
}
