package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/getsentry/sentry-go"

	"github.com/simaogato/goalnudge-backend/internal/domain"
)

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string, err error) {
	response := map[string]string{
		"error": message,
	}
	if err != nil {
		response["details"] = err.Error()
	}
	respondJSON(w, status, response)
}

// respondServiceError maps domain errors to HTTP status codes
func (h *handler) respondServiceError(w http.ResponseWriter, r *http.Request, message string, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		respondError(w, http.StatusNotFound, message, err)
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrDivisionByZero):
		respondError(w, http.StatusBadRequest, message, err)
	case errors.Is(err, domain.ErrLanguageGenerationUnavailable):
		respondError(w, http.StatusServiceUnavailable, message, err)
	default:
		h.logger.Error(message, "error", err, "path", r.URL.Path)
		if hub := sentry.GetHubFromContext(r.Context()); hub != nil {
			hub.CaptureException(err)
		}
		respondError(w, http.StatusInternalServerError, message, nil)
	}
}
