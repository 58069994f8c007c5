package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"niftynet/internal/catalogservice"
	"niftynet/internal/query"
)

// Handler holds API route handlers.
type Handler struct {
	svc *catalogservice.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *catalogservice.Service) *Handler {
	return &Handler{svc: svc}
}

// ListCatalog handles GET /catalog. It returns every entry, newest
// first, with no personalization applied.
func (h *Handler) ListCatalog(w http.ResponseWriter, r *http.Request) {
	entries, err := h.svc.List(r.Context())
	if err != nil {
		slog.Error("list catalog failed", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// ViewCatalog handles GET /catalog/view. Query parameters: search,
// category (repeatable), sort (title|createdAt), favorites, noted.
func (h *Handler) ViewCatalog(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts := query.Options{
		SearchText:    q.Get("search"),
		Categories:    q["category"],
		SortKey:       q.Get("sort"),
		FavoritesOnly: q.Get("favorites") == "true",
		NotedOnly:     q.Get("noted") == "true",
	}

	entries, err := h.svc.View(r.Context(), opts)
	if err != nil {
		slog.Error("view catalog failed", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// CreateEntry handles POST /catalog. A failed submission returns the
// failure without side effects so the caller can correct and resubmit.
func (h *Handler) CreateEntry(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req CreateEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}

	entry, err := h.svc.Submit(r.Context(), catalogservice.SubmitRequest{
		URL:            req.URL,
		VideoSourceURL: req.VideoSourceURL,
		Categories:     req.Categories,
		Notes:          req.Notes,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

// RefreshEntry handles POST /catalog/{id}/refresh. It re-runs
// enrichment and returns the new metadata.
func (h *Handler) RefreshEntry(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("id is required"))
		return
	}
	meta, err := h.svc.Refresh(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, meta)
}

// PreviewMetadata handles POST /catalog/metadata. Extraction is
// best-effort, so the response is always 200; an unscrapable page
// yields an empty object.
func (h *Handler) PreviewMetadata(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req MetadataRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if req.URL == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("url is required"))
		return
	}
	writeJSON(w, http.StatusOK, h.svc.Preview(r.Context(), req.URL))
}

// ToggleFavorite handles POST /catalog/{id}/favorite.
func (h *Handler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("id is required"))
		return
	}
	favored, err := h.svc.ToggleFavorite(id)
	if err != nil {
		slog.Error("toggle favorite failed", slog.String("id", id), slog.String("error", err.Error()))
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, FavoriteResponse{ID: id, Favored: favored})
}

// SaveNote handles PUT /catalog/{id}/note. An empty text is a valid
// note; DELETE removes the note key entirely.
func (h *Handler) SaveNote(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("id is required"))
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req NoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if err := h.svc.SaveNote(id, req.Text); err != nil {
		slog.Error("save note failed", slog.String("id", id), slog.String("error", err.Error()))
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ClearNote handles DELETE /catalog/{id}/note.
func (h *Handler) ClearNote(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("id is required"))
		return
	}
	if err := h.svc.ClearNote(id); err != nil {
		slog.Error("clear note failed", slog.String("id", id), slog.String("error", err.Error()))
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
