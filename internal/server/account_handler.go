package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/qrtag/qrtag-api/internal/apperr"
	"github.com/qrtag/qrtag-api/internal/serialize"
	"github.com/qrtag/qrtag-api/internal/service/account"
)

// AccountHandler exposes registration, login, token flows and the
// /users resource.
type AccountHandler struct {
	svc     *account.Service
	baseURL string
}

func NewAccountHandler(svc *account.Service, baseURL string) *AccountHandler {
	return &AccountHandler{svc: svc, baseURL: baseURL}
}

func (h *AccountHandler) Register(r chi.Router) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.register)
		r.Post("/login", h.login)
		r.Post("/activate", h.activate)
		r.Post("/email", h.changeEmail)
		r.Post("/password/reset", h.requestReset)
		r.Post("/password/reset/confirm", h.confirmReset)
	})

	r.Route("/users", func(r chi.Router) {
		r.Get("/", h.list)
		r.Get("/me", h.me)
		r.Put("/me", h.updateMe)
		r.Patch("/me", h.updateMe)
		r.Get("/{id}", h.get)
		r.Delete("/{id}", h.deleteBlocked)
	})
}

func (h *AccountHandler) opts() serialize.Options {
	return serialize.Options{BaseURL: h.baseURL}
}

type registerRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	NickName  string `json:"nick_name"`
}

func (h *AccountHandler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, err)
		return
	}

	user, profile, err := h.svc.Register(r.Context(), account.RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		NickName:  req.NickName,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	view := serialize.NewUserView(user, profile, serialize.ParseExpansions("profile"), h.opts())
	respondJSON(w, http.StatusCreated, view)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string             `json:"token"`
	User  serialize.UserView `json:"user"`
}

func (h *AccountHandler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, err)
		return
	}

	token, user, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, loginResponse{
		Token: token,
		User:  serialize.NewUserView(user, nil, serialize.Expansions{}, h.opts()),
	})
}

func (h *AccountHandler) activate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token string `json:"token"`
	}
	if err := decodeBody(r, &req); err != nil {
		respondError(w, err)
		return
	}
	if err := h.svc.Activate(r.Context(), req.Token); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

func (h *AccountHandler) changeEmail(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := decodeBody(r, &req); err != nil {
		respondError(w, err)
		return
	}
	if err := h.svc.ChangeEmail(r.Context(), requesterFrom(r), req.Email); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

func (h *AccountHandler) requestReset(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := decodeBody(r, &req); err != nil {
		respondError(w, err)
		return
	}
	if err := h.svc.RequestPasswordReset(r.Context(), req.Email); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

func (h *AccountHandler) confirmReset(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token    string `json:"token"`
		Password string `json:"password"`
	}
	if err := decodeBody(r, &req); err != nil {
		respondError(w, err)
		return
	}
	if err := h.svc.ConfirmPasswordReset(r.Context(), req.Token, req.Password); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

func (h *AccountHandler) list(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.List(r.Context(), requesterFrom(r), r.URL.Query().Get("search"))
	if err != nil {
		respondError(w, err)
		return
	}

	views := make([]serialize.UserView, 0, len(users))
	for i := range users {
		views = append(views, serialize.NewUserView(&users[i], nil, serialize.Expansions{}, h.opts()))
	}
	respondJSON(w, http.StatusOK, views)
}

func (h *AccountHandler) me(w http.ResponseWriter, r *http.Request) {
	requester := requesterFrom(r)
	if requester == nil {
		respondError(w, apperr.ErrUnauthenticated)
		return
	}

	user, err := h.svc.Get(r.Context(), requester, requester.UserID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, serialize.NewUserView(user, nil, serialize.Expansions{}, h.opts()))
}

func (h *AccountHandler) get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	user, err := h.svc.Get(r.Context(), requesterFrom(r), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, serialize.NewUserView(user, nil, serialize.Expansions{}, h.opts()))
}

type updateMeRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	NickName  string `json:"nick_name"`
}

func (h *AccountHandler) updateMe(w http.ResponseWriter, r *http.Request) {
	var req updateMeRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, err)
		return
	}

	user, err := h.svc.UpdateMe(r.Context(), requesterFrom(r), account.UpdateInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		NickName:  req.NickName,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, serialize.NewUserView(user, nil, serialize.Expansions{}, h.opts()))
}

// deleteBlocked answers every account delete with 405; deletion never
// reaches storage.
func (h *AccountHandler) deleteBlocked(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	respondError(w, h.svc.Delete(r.Context(), requesterFrom(r), id))
}
