// Package catalogservice coordinates ingestion, enrichment, and view
// assembly over the catalog store and the personalization profile.
package catalogservice

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"niftynet/internal/apperr"
	"niftynet/internal/catalog"
	"niftynet/internal/metadata"
	"niftynet/internal/models"
	"niftynet/internal/personalization"
	"niftynet/internal/query"
)

// Enricher produces best-effort page metadata for a URL. It never
// fails; an unreachable or unscrapable page yields the zero Result.
type Enricher interface {
	Extract(ctx context.Context, url string) metadata.Result
}

// Service coordinates store, extractor, and profile operations.
type Service struct {
	store    catalog.Store
	enricher Enricher
	profile  *personalization.Store
	logger   *slog.Logger
	onChange func(kind, id string)
}

// NewService creates a new catalog service.
func NewService(store catalog.Store, enricher Enricher, profile *personalization.Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, enricher: enricher, profile: profile, logger: logger}
}

// OnChange registers a callback invoked after an entry is created or
// refreshed. The kind is "created" or "refreshed". Must be set before
// the service handles requests.
func (s *Service) OnChange(fn func(kind, id string)) {
	s.onChange = fn
}

func (s *Service) notify(kind, id string) {
	if s.onChange != nil {
		s.onChange(kind, id)
	}
}

// SubmitRequest carries the caller-supplied fields of one submission.
type SubmitRequest struct {
	URL            string
	VideoSourceURL string
	Categories     []string
	Notes          string
}

// validate trims the request in place and rejects missing required
// fields. Notes normalizes to absent when empty after trimming.
func (r *SubmitRequest) validate() error {
	r.URL = strings.TrimSpace(r.URL)
	r.VideoSourceURL = strings.TrimSpace(r.VideoSourceURL)
	r.Notes = strings.TrimSpace(r.Notes)

	if r.URL == "" {
		return &apperr.ValidationError{Field: "url", Reason: "is required"}
	}
	if r.VideoSourceURL == "" {
		return &apperr.ValidationError{Field: "videoSourceUrl", Reason: "is required"}
	}
	return nil
}

// Submit validates the request, enriches the URL best-effort, and
// persists exactly one entry. Extraction failures never block
// ingestion: the entry is created with empty metadata. Validation and
// persistence failures leave no partial entry behind.
func (s *Service) Submit(ctx context.Context, req SubmitRequest) (models.CatalogEntry, error) {
	if err := req.validate(); err != nil {
		return models.CatalogEntry{}, err
	}

	meta := s.enricher.Extract(ctx, req.URL)
	if meta.Empty() {
		s.logger.Info("submit: enrichment yielded nothing", slog.String("url", req.URL))
	}

	entry, err := s.store.Create(ctx, catalog.Draft{
		URL:            req.URL,
		VideoSourceURL: req.VideoSourceURL,
		Categories:     req.Categories,
		Notes:          req.Notes,
		Title:          meta.Title,
		Description:    meta.Description,
		Image:          meta.Image,
	})
	if err != nil {
		return models.CatalogEntry{}, fmt.Errorf("submit: %w", err)
	}

	s.logger.Info("submit: entry created",
		slog.String("id", entry.ID),
		slog.String("url", entry.URL),
		slog.Int("categories", len(entry.Categories)))
	s.notify("created", entry.ID)
	return entry, nil
}

// Refresh re-runs enrichment for an existing entry and persists the new
// title, description, and image. All other fields are untouched. The
// new metadata is returned for immediate display.
func (s *Service) Refresh(ctx context.Context, id string) (metadata.Result, error) {
	entry, err := s.store.Get(ctx, id)
	if err != nil {
		return metadata.Result{}, err
	}

	meta := s.enricher.Extract(ctx, entry.URL)
	if err := s.store.UpdateMetadata(ctx, id, meta.Title, meta.Description, meta.Image); err != nil {
		return metadata.Result{}, fmt.Errorf("refresh: %w", err)
	}

	s.logger.Info("refresh: metadata updated", slog.String("id", id), slog.Bool("empty", meta.Empty()))
	s.notify("refreshed", id)
	return meta, nil
}

// Preview runs enrichment for an arbitrary URL without touching the
// store. It backs the best-effort metadata endpoint.
func (s *Service) Preview(ctx context.Context, url string) metadata.Result {
	return s.enricher.Extract(ctx, strings.TrimSpace(url))
}

// List returns every entry, newest first.
func (s *Service) List(ctx context.Context) ([]models.CatalogEntry, error) {
	return s.store.List(ctx)
}

// View lists the catalog, takes one profile snapshot, and applies the
// query engine. The snapshot is read once so all predicates within this
// view see the same personalization state.
func (s *Service) View(ctx context.Context, opts query.Options) ([]models.CatalogEntry, error) {
	entries, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	return query.Apply(entries, s.profile.Snapshot(), opts), nil
}

// ToggleFavorite flips the favorite flag for id on this device and
// returns the new state.
func (s *Service) ToggleFavorite(id string) (bool, error) {
	return s.profile.ToggleFavorite(id)
}

// SaveNote stores the device-local note for id (last write wins).
func (s *Service) SaveNote(id, text string) error {
	return s.profile.SaveNote(id, text)
}

// ClearNote removes the device-local note for id.
func (s *Service) ClearNote(id string) error {
	return s.profile.ClearNote(id)
}
