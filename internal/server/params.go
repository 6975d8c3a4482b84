package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/qrtag/qrtag-api/internal/apperr"
	"github.com/qrtag/qrtag-api/internal/repository"
	"github.com/qrtag/qrtag-api/internal/serialize"
)

// pathID parses a numeric path parameter.
func pathID(r *http.Request, name string) (uint64, error) {
	id, err := strconv.ParseUint(chi.URLParam(r, name), 10, 64)
	if err != nil || id == 0 {
		return 0, apperr.Invalid(name + " must be a positive integer")
	}
	return id, nil
}

// expansionsFrom parses the expand query parameter.
func expansionsFrom(r *http.Request) serialize.Expansions {
	return serialize.ParseExpansions(r.URL.Query().Get("expand"))
}

// windowFrom parses the optional after/before RFC3339 filters.
func windowFrom(r *http.Request) (repository.TimeWindow, error) {
	var window repository.TimeWindow

	if raw := r.URL.Query().Get("after"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return window, apperr.Invalid("after must be an RFC3339 timestamp")
		}
		window.After = t
	}
	if raw := r.URL.Query().Get("before"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return window, apperr.Invalid("before must be an RFC3339 timestamp")
		}
		window.Before = t
	}
	return window, nil
}

// parseDate parses a YYYY-MM-DD payload field.
func parseDate(raw string) (*time.Time, error) {
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, apperr.Invalid("date_of_birth must be YYYY-MM-DD")
	}
	return &t, nil
}

// tokenFrom returns the pagination token, nil when absent.
func tokenFrom(r *http.Request) *string {
	if raw := r.URL.Query().Get("page_token"); raw != "" {
		return &raw
	}
	return nil
}
