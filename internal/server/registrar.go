package server

import "github.com/go-chi/chi/v5"

// Registrar is the common interface all resource handlers implement to
// attach their routes to the router.
type Registrar interface {
	Register(r chi.Router)
}
