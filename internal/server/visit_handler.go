package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/qrtag/qrtag-api/internal/metrics"
	"github.com/qrtag/qrtag-api/internal/serialize"
	"github.com/qrtag/qrtag-api/internal/service/visit"
)

// VisitHandler exposes the /visits resource.
type VisitHandler struct {
	svc *visit.Service
}

func NewVisitHandler(svc *visit.Service) *VisitHandler {
	return &VisitHandler{svc: svc}
}

func (h *VisitHandler) Register(r chi.Router) {
	r.Route("/visits", func(r chi.Router) {
		r.Post("/", h.record)
		r.Post("/scan", h.recordScan)
		r.Get("/my-visits", h.myVisits)
		r.Get("/my-views", h.myViews)
		r.Post("/{id}/hide", h.hide)
		r.Delete("/{id}", h.deleteBlocked)
	})
}

type recordVisitRequest struct {
	Profile uint64 `json:"profile"`
	Scanned bool   `json:"is_scanned"`
}

func (h *VisitHandler) record(w http.ResponseWriter, r *http.Request) {
	var req recordVisitRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, err)
		return
	}

	view, err := h.svc.Record(r.Context(), requesterFrom(r), req.Profile, req.Scanned)
	if err != nil {
		respondError(w, err)
		return
	}

	metrics.CountVisit()
	respondJSON(w, http.StatusCreated, view)
}

type scanVisitRequest struct {
	Code uint64 `json:"code"`
}

func (h *VisitHandler) recordScan(w http.ResponseWriter, r *http.Request) {
	var req scanVisitRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, err)
		return
	}

	view, err := h.svc.RecordByCode(r.Context(), requesterFrom(r), req.Code)
	if err != nil {
		respondError(w, err)
		return
	}

	metrics.CountVisit()
	respondJSON(w, http.StatusCreated, view)
}

type visitPage struct {
	Visits    []serialize.VisitView `json:"visits"`
	NextToken *string               `json:"next_page_token,omitempty"`
}

func (h *VisitHandler) myVisits(w http.ResponseWriter, r *http.Request) {
	window, err := windowFrom(r)
	if err != nil {
		respondError(w, err)
		return
	}

	page, err := h.svc.MyVisits(r.Context(), requesterFrom(r), window, tokenFrom(r), expansionsFrom(r))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, visitPage{Visits: page.Visits, NextToken: page.NextToken})
}

func (h *VisitHandler) myViews(w http.ResponseWriter, r *http.Request) {
	window, err := windowFrom(r)
	if err != nil {
		respondError(w, err)
		return
	}

	page, err := h.svc.MyViews(r.Context(), requesterFrom(r), window, tokenFrom(r), expansionsFrom(r))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, visitPage{Visits: page.Visits, NextToken: page.NextToken})
}

func (h *VisitHandler) hide(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	if err := h.svc.Hide(r.Context(), requesterFrom(r), id); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, nil)
}

func (h *VisitHandler) deleteBlocked(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	respondError(w, h.svc.Delete(r.Context(), requesterFrom(r), id))
}
