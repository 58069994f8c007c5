package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"niftynet/internal/catalogservice"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether the admin key gates the ingestion routes
// (submit and refresh); reads and device-local personalization are
// always open. sseHandler, if non-nil, is mounted at GET /events.
func NewRouter(svc *catalogservice.Service, authEnabled bool, adminKey string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()

	// Public read surface.
	r.Get("/catalog", h.ListCatalog)
	r.Get("/catalog/view", h.ViewCatalog)

	// Best-effort metadata preview (always 200 on a well-formed request).
	r.Post("/catalog/metadata", h.PreviewMetadata)

	// Device-local personalization.
	r.Post("/catalog/{id}/favorite", h.ToggleFavorite)
	r.Put("/catalog/{id}/note", h.SaveNote)
	r.Delete("/catalog/{id}/note", h.ClearNote)

	// Ingestion (admin-key protected).
	r.Group(func(r chi.Router) {
		r.Use(AdminKeyMiddleware(authEnabled, adminKey))
		r.Post("/catalog", h.CreateEntry)
		r.Post("/catalog/{id}/refresh", h.RefreshEntry)
	})

	// SSE endpoint.
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
