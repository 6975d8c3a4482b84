package server

import (
	"encoding/json"
	"net/http"

	"github.com/qrtag/qrtag-api/internal/apperr"
	"github.com/qrtag/qrtag-api/internal/auth"
	"github.com/qrtag/qrtag-api/internal/logger"
)

// respondJSON writes a JSON body with the given status.
func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("failed to encode response", "err", err)
	}
}

type errorBody struct {
	Error string `json:"error"`
}

// respondError maps a domain error onto its HTTP status and envelope.
func respondError(w http.ResponseWriter, err error) {
	status := apperr.Status(err)
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", "err", err)
	}
	respondJSON(w, status, errorBody{Error: apperr.Message(err)})
}

// rejectWith adapts respondError to the middleware reject callbacks.
func rejectWith(w http.ResponseWriter, _ *http.Request, err error) {
	respondError(w, err)
}

// requesterFrom extracts the authenticated identity, nil when anonymous.
func requesterFrom(r *http.Request) *auth.Identity {
	if id, ok := auth.IdentityFrom(r.Context()); ok {
		return &id
	}
	return nil
}

// decodeBody parses a JSON request body into dst.
func decodeBody(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperr.Invalid("malformed JSON body")
	}
	return nil
}
