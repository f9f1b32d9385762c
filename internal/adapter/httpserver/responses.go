// Package httpserver contains HTTP handlers and middleware.
//
// It provides the REST API for job browsing, resume upload, match scoring
// and application tracking. Every response carries a success flag and a
// message so no caller is ever left without a structured answer.
package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/fairyhunter13/ai-job-matcher/internal/domain"
)

type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Source  string `json:"source,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeData(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: data})
}

func writeMessage(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusOK, envelope{Success: true, Message: message})
}

// writeError maps the domain error taxonomy onto HTTP statuses. Upstream
// failures reaching this point indicate a missing fallback, so they are
// reported as service-unavailable rather than masked.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrInvalidArgument):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrUpstreamUnavailable), errors.Is(err, domain.ErrSchemaInvalid):
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, envelope{Success: false, Message: err.Error()})
}
