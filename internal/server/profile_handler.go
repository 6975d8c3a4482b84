package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/qrtag/qrtag-api/internal/service/profile"
)

// ProfileHandler exposes the /profiles resource.
type ProfileHandler struct {
	svc *profile.Service
}

func NewProfileHandler(svc *profile.Service) *ProfileHandler {
	return &ProfileHandler{svc: svc}
}

func (h *ProfileHandler) Register(r chi.Router) {
	r.Route("/profiles", func(r chi.Router) {
		r.Get("/", h.list)
		r.Get("/me", h.me)
		r.Put("/me", h.updateMe)
		r.Patch("/me", h.updateMe)
		r.Get("/code/{code}", h.getByCode)
		r.Get("/{id}", h.get)
		r.Delete("/{id}", h.deleteBlocked)
	})
}

func (h *ProfileHandler) list(w http.ResponseWriter, r *http.Request) {
	views, err := h.svc.List(r.Context(), requesterFrom(r), expansionsFrom(r))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, views)
}

func (h *ProfileHandler) get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	view, err := h.svc.Get(r.Context(), requesterFrom(r), id, expansionsFrom(r))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

func (h *ProfileHandler) getByCode(w http.ResponseWriter, r *http.Request) {
	code, err := pathID(r, "code")
	if err != nil {
		respondError(w, err)
		return
	}

	view, err := h.svc.GetByCode(r.Context(), requesterFrom(r), code, expansionsFrom(r))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

func (h *ProfileHandler) me(w http.ResponseWriter, r *http.Request) {
	view, err := h.svc.Me(r.Context(), requesterFrom(r), expansionsFrom(r))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

type profileUpdateRequest struct {
	Position     string  `json:"position"`
	Bio          string  `json:"bio"`
	PhoneNumber1 string  `json:"phone_number_1"`
	PhoneNumber2 string  `json:"phone_number_2"`
	City         string  `json:"city"`
	Country      string  `json:"country"`
	Address      string  `json:"address"`
	Image        string  `json:"image"`
	Cover        string  `json:"cover"`
	Gender       string  `json:"gender"`
	DateOfBirth  *string `json:"date_of_birth"` // YYYY-MM-DD
	Public       *bool   `json:"public"`
}

func (h *ProfileHandler) updateMe(w http.ResponseWriter, r *http.Request) {
	var req profileUpdateRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, err)
		return
	}

	in := profile.UpdateInput{
		Position:     req.Position,
		Bio:          req.Bio,
		PhoneNumber1: req.PhoneNumber1,
		PhoneNumber2: req.PhoneNumber2,
		City:         req.City,
		Country:      req.Country,
		Address:      req.Address,
		Image:        req.Image,
		Cover:        req.Cover,
		Gender:       req.Gender,
		Public:       req.Public,
	}
	if req.DateOfBirth != nil {
		dob, err := parseDate(*req.DateOfBirth)
		if err != nil {
			respondError(w, err)
			return
		}
		in.DateOfBirth = dob
	}

	view, err := h.svc.UpdateMe(r.Context(), requesterFrom(r), in)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

func (h *ProfileHandler) deleteBlocked(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	respondError(w, h.svc.Delete(r.Context(), requesterFrom(r), id))
}
