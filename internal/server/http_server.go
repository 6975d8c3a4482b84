package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/qrtag/qrtag-api/internal/cache"
	"github.com/qrtag/qrtag-api/internal/config"
	"github.com/qrtag/qrtag-api/internal/metrics"
	"github.com/qrtag/qrtag-api/internal/middleware"
)

// NewRouter builds the chi router: middleware chain plus all handler
// registrars.
//
// Middleware order: Recover → RequestLogger → Authenticate →
// ThrottleUpdates. Throttling sits after auth so it can count per user.
func NewRouter(cfg *config.Config, rdb *cache.RedisCache, resolver middleware.IdentityResolver, registrars ...Registrar) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recover)
	r.Use(middleware.RequestLogger)
	r.Use(middleware.Authenticate(cfg.Auth.JWTSecret, resolver, rejectWith))
	r.Use(middleware.ThrottleUpdates(rdb, cfg.Throttle.UpdateLimit, cfg.Throttle.UpdateWindow, rejectWith))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	for _, reg := range registrars {
		reg.Register(r)
	}

	return r
}

// Start boots the HTTP server on the configured address.
func Start(cfg *config.Config, handler http.Handler) error {
	addr := fmt.Sprintf("%s:%s", cfg.HTTP.Host, cfg.HTTP.Port)

	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return srv.ListenAndServe()
}
