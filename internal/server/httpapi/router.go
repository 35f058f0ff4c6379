package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wibisana/berkas/internal/logging"
)

// RouterConfig carries the transport-level settings the router needs.
type RouterConfig struct {
	// JWTSecret verifies bearer tokens from the identity provider.
	JWTSecret []byte
	// SharedKey guards the /internal endpoints (provisioning hooks and
	// the purge trigger).
	SharedKey string
}

// NewRouter wires all routes and middleware.
func NewRouter(cfg RouterConfig, h *Handlers, logger logging.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(Metrics())
	r.Use(RequestLogger(logger))

	r.Get("/healthz", h.Health)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(BearerAuth(cfg.JWTSecret))

		r.Post("/uploads", h.GenerateUploadURL)
		r.Post("/folders", h.CreateFolder)

		r.Post("/files", h.CreateFile)
		r.Get("/files", h.ListEntries)
		r.Delete("/files/{id}", h.TrashEntry)
		r.Post("/files/{id}/restore", h.RestoreEntry)
		r.Post("/files/{id}/favorite", h.ToggleFavorite)

		r.Get("/favorites", h.ListFavorites)
		r.Get("/path", h.ResolvePath)

		r.Get("/me", h.Me)
		r.Get("/users/{id}/profile", h.GetProfile)
	})

	r.Route("/internal/v1", func(r chi.Router) {
		r.Use(RequireSharedKey(cfg.SharedKey))

		r.Post("/users", h.ProvisionUser)
		r.Patch("/users", h.UpdateProvisionedUser)
		r.Post("/purge", h.Purge)
	})

	return r
}
