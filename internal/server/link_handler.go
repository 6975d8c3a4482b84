package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/qrtag/qrtag-api/internal/service/link"
)

// LinkHandler exposes the /links resource, always the requester's own.
type LinkHandler struct {
	svc *link.Service
}

func NewLinkHandler(svc *link.Service) *LinkHandler {
	return &LinkHandler{svc: svc}
}

func (h *LinkHandler) Register(r chi.Router) {
	r.Route("/links", func(r chi.Router) {
		r.Get("/", h.list)
		r.Post("/", h.create)
		r.Put("/{id}", h.update)
		r.Patch("/{id}", h.update)
		r.Delete("/{id}", h.delete)
	})
}

func (h *LinkHandler) list(w http.ResponseWriter, r *http.Request) {
	views, err := h.svc.List(r.Context(), requesterFrom(r))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, views)
}

type linkRequest struct {
	URL    string `json:"url"`
	Active *bool  `json:"active"`
}

func (h *LinkHandler) create(w http.ResponseWriter, r *http.Request) {
	var req linkRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, err)
		return
	}

	view, err := h.svc.Create(r.Context(), requesterFrom(r), link.Input{URL: req.URL, Active: req.Active})
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, view)
}

func (h *LinkHandler) update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	var req linkRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, err)
		return
	}

	view, err := h.svc.Update(r.Context(), requesterFrom(r), id, link.Input{URL: req.URL, Active: req.Active})
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

func (h *LinkHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	if err := h.svc.Delete(r.Context(), requesterFrom(r), id); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}
