package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/qrtag/qrtag-api/internal/service/info"
)

// InfoHandler exposes the public informational content.
type InfoHandler struct {
	svc *info.Service
}

func NewInfoHandler(svc *info.Service) *InfoHandler {
	return &InfoHandler{svc: svc}
}

func (h *InfoHandler) Register(r chi.Router) {
	r.Route("/info", func(r chi.Router) {
		r.Get("/main", h.main)
		r.Get("/faqs", h.faqs)
		r.Get("/about", h.about)
		r.Get("/terms", h.terms)
		r.Get("/cookies", h.cookies)
		r.Get("/privacy", h.privacy)
		r.Get("/header-images", h.headerImages)
		r.Post("/contact", h.contact)
	})
}

func (h *InfoHandler) main(w http.ResponseWriter, r *http.Request) {
	main, err := h.svc.MainInfo(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, main)
}

func (h *InfoHandler) faqs(w http.ResponseWriter, r *http.Request) {
	faqs, err := h.svc.FAQs(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, faqs)
}

func (h *InfoHandler) about(w http.ResponseWriter, r *http.Request) {
	entries, err := h.svc.About(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, entries)
}

func (h *InfoHandler) terms(w http.ResponseWriter, r *http.Request) {
	entries, err := h.svc.Terms(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, entries)
}

func (h *InfoHandler) cookies(w http.ResponseWriter, r *http.Request) {
	entries, err := h.svc.CookiePolicies(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, entries)
}

func (h *InfoHandler) privacy(w http.ResponseWriter, r *http.Request) {
	entries, err := h.svc.PrivacyPolicies(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, entries)
}

func (h *InfoHandler) headerImages(w http.ResponseWriter, r *http.Request) {
	images, err := h.svc.HeaderImages(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, images)
}

type contactRequest struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
	Subject     string `json:"subject"`
	Message     string `json:"message"`
}

func (h *InfoHandler) contact(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, err)
		return
	}

	msg, err := h.svc.SubmitContact(r.Context(), info.ContactInput{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Subject:     req.Subject,
		Message:     req.Message,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, msg)
}
