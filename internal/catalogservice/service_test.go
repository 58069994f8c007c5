package catalogservice

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"niftynet/internal/apperr"
	"niftynet/internal/catalog"
	"niftynet/internal/metadata"
	"niftynet/internal/models"
	"niftynet/internal/personalization"
	"niftynet/internal/query"
)

// stubEnricher returns a fixed result and records whether it ran.
type stubEnricher struct {
	result metadata.Result
	calls  int
}

func (s *stubEnricher) Extract(_ context.Context, _ string) metadata.Result {
	s.calls++
	return s.result
}

func testService(t *testing.T, enricher Enricher) (*Service, catalog.Store) {
	t.Helper()
	db, err := catalog.Open(t.TempDir() + "/catalog.db")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })

	profile, err := personalization.NewStore(t.TempDir(), slog.Default())
	if err != nil {
		t.Fatal(err)
	}
	return NewService(db, enricher, profile, slog.Default()), db
}

func TestSubmitWithEmptyExtraction(t *testing.T) {
	// Scenario: extractor returns nothing (unreachable URL); submit
	// still succeeds with absent metadata.
	svc, _ := testService(t, &stubEnricher{})

	entry, err := svc.Submit(context.Background(), SubmitRequest{
		URL:            "https://example.com",
		VideoSourceURL: "https://youtu.be/abc",
		Categories:     []string{"coding"},
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if entry.Title != "" || entry.Description != "" || entry.Image != "" {
		t.Errorf("metadata should be absent: %+v", entry)
	}
	if len(entry.Categories) != 1 || entry.Categories[0] != "coding" {
		t.Errorf("categories = %v, want [coding]", entry.Categories)
	}
}

func TestSubmitPersistsEnrichment(t *testing.T) {
	svc, store := testService(t, &stubEnricher{result: metadata.Result{
		Title:       "Example",
		Description: "An example page",
		Image:       "https://example.com/og.png",
	}})

	entry, err := svc.Submit(context.Background(), SubmitRequest{
		URL:            "  https://example.com  ",
		VideoSourceURL: " https://youtu.be/abc ",
		Notes:          "  keep this  ",
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if entry.URL != "https://example.com" || entry.VideoSourceURL != "https://youtu.be/abc" {
		t.Errorf("fields not trimmed: %+v", entry)
	}
	if entry.Notes != "keep this" {
		t.Errorf("notes = %q", entry.Notes)
	}

	stored, err := store.Get(context.Background(), entry.ID)
	if err != nil {
		t.Fatal(err)
	}
	if stored.Title != "Example" || stored.Image != "https://example.com/og.png" {
		t.Errorf("enrichment not persisted: %+v", stored)
	}
}

func TestSubmitMissingURL(t *testing.T) {
	enricher := &stubEnricher{}
	svc, store := testService(t, enricher)

	_, err := svc.Submit(context.Background(), SubmitRequest{
		URL:            "   ",
		VideoSourceURL: "https://youtu.be/abc",
	})
	if !apperr.IsValidation(err) {
		t.Fatalf("err = %v, want ValidationError", err)
	}

	n, _ := store.Count(context.Background())
	if n != 0 {
		t.Errorf("no entry should exist after validation failure, count = %d", n)
	}
	if enricher.calls != 0 {
		t.Error("extraction should not run before validation passes")
	}
}

func TestSubmitMissingVideoSource(t *testing.T) {
	svc, _ := testService(t, &stubEnricher{})

	_, err := svc.Submit(context.Background(), SubmitRequest{URL: "https://example.com"})
	var ve *apperr.ValidationError
	if !errors.As(err, &ve) || ve.Field != "videoSourceUrl" {
		t.Errorf("err = %v, want validation error on videoSourceUrl", err)
	}
}

func TestRefreshReplacesOnlyMetadata(t *testing.T) {
	enricher := &stubEnricher{}
	svc, store := testService(t, enricher)

	entry, err := svc.Submit(context.Background(), SubmitRequest{
		URL:            "https://example.com",
		VideoSourceURL: "https://youtu.be/abc",
		Notes:          "server note",
	})
	if err != nil {
		t.Fatal(err)
	}

	enricher.result = metadata.Result{Title: "Fresh Title", Description: "fresh"}
	got, err := svc.Refresh(context.Background(), entry.ID)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if got.Title != "Fresh Title" {
		t.Errorf("returned metadata = %+v", got)
	}

	stored, _ := store.Get(context.Background(), entry.ID)
	if stored.Title != "Fresh Title" || stored.Notes != "server note" {
		t.Errorf("refresh persisted wrong fields: %+v", stored)
	}
}

func TestRefreshUnknownID(t *testing.T) {
	enricher := &stubEnricher{}
	svc, _ := testService(t, enricher)

	_, err := svc.Refresh(context.Background(), "missing")
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
	if enricher.calls != 0 {
		t.Error("extraction should not run for an unknown entry")
	}
}

func TestViewMergesPersonalization(t *testing.T) {
	svc, _ := testService(t, &stubEnricher{result: metadata.Result{Title: "T"}})
	ctx := context.Background()

	a, err := svc.Submit(ctx, SubmitRequest{URL: "https://a.example.com", VideoSourceURL: "https://v.example.com"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Submit(ctx, SubmitRequest{URL: "https://b.example.com", VideoSourceURL: "https://v.example.com"}); err != nil {
		t.Fatal(err)
	}

	if _, err := svc.ToggleFavorite(a.ID); err != nil {
		t.Fatal(err)
	}

	got, err := svc.View(ctx, query.Options{FavoritesOnly: true})
	if err != nil {
		t.Fatalf("View: %v", err)
	}
	if len(got) != 1 || got[0].ID != a.ID {
		t.Errorf("view = %v, want only the favored entry", got)
	}
}

func TestToggleFavoriteScenario(t *testing.T) {
	svc, _ := testService(t, &stubEnricher{})

	favored, err := svc.ToggleFavorite("5")
	if err != nil || !favored {
		t.Fatalf("first toggle = %v, %v; want true, nil", favored, err)
	}
	favored, err = svc.ToggleFavorite("5")
	if err != nil || favored {
		t.Fatalf("second toggle = %v, %v; want false, nil", favored, err)
	}
}

func TestOnChangeNotifications(t *testing.T) {
	svc, _ := testService(t, &stubEnricher{})
	ctx := context.Background()

	type change struct{ kind, id string }
	var changes []change
	svc.OnChange(func(kind, id string) {
		changes = append(changes, change{kind, id})
	})

	entry, err := svc.Submit(ctx, SubmitRequest{URL: "https://a.example.com", VideoSourceURL: "https://v.example.com"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Refresh(ctx, entry.ID); err != nil {
		t.Fatal(err)
	}

	want := []change{{"created", entry.ID}, {"refreshed", entry.ID}}
	if len(changes) != len(want) {
		t.Fatalf("changes = %v, want %v", changes, want)
	}
	for i := range want {
		if changes[i] != want[i] {
			t.Errorf("change[%d] = %v, want %v", i, changes[i], want[i])
		}
	}

	// Failed submissions must not notify.
	if _, err := svc.Submit(ctx, SubmitRequest{}); err == nil {
		t.Fatal("expected validation error")
	}
	if len(changes) != 2 {
		t.Errorf("failed submit produced a notification: %v", changes)
	}
}

// failingStore simulates a storage fault on every operation.
type failingStore struct{ err error }

func (f *failingStore) Create(context.Context, catalog.Draft) (models.CatalogEntry, error) {
	return models.CatalogEntry{}, f.err
}

func (f *failingStore) Get(context.Context, string) (models.CatalogEntry, error) {
	return models.CatalogEntry{}, f.err
}

func (f *failingStore) List(context.Context) ([]models.CatalogEntry, error) {
	return nil, f.err
}

func (f *failingStore) UpdateMetadata(context.Context, string, string, string, string) error {
	return f.err
}

func (f *failingStore) Count(context.Context) (int, error) { return 0, f.err }

func (f *failingStore) Close() error { return nil }

func TestSubmitSurfacesStorageFault(t *testing.T) {
	faultErr := errors.New("disk full")
	profile, err := personalization.NewStore(t.TempDir(), nil)
	if err != nil {
		t.Fatal(err)
	}
	svc := NewService(&failingStore{err: faultErr}, &stubEnricher{}, profile, slog.Default())

	notified := 0
	svc.OnChange(func(_, _ string) { notified++ })

	_, err = svc.Submit(context.Background(), SubmitRequest{
		URL:            "https://example.com",
		VideoSourceURL: "https://youtu.be/abc",
	})
	if !errors.Is(err, faultErr) {
		t.Fatalf("Submit err = %v, want wrapped %v", err, faultErr)
	}
	if apperr.IsValidation(err) {
		t.Error("storage fault must not surface as a validation error")
	}
	if notified != 0 {
		t.Errorf("failed submit produced %d notifications, want 0", notified)
	}
}

func TestRefreshSurfacesStorageFault(t *testing.T) {
	faultErr := errors.New("disk full")
	profile, err := personalization.NewStore(t.TempDir(), nil)
	if err != nil {
		t.Fatal(err)
	}
	enricher := &stubEnricher{}
	svc := NewService(&failingStore{err: faultErr}, enricher, profile, slog.Default())

	if _, err := svc.Refresh(context.Background(), "some-id"); !errors.Is(err, faultErr) {
		t.Fatalf("Refresh err = %v, want wrapped %v", err, faultErr)
	}
	if enricher.calls != 0 {
		t.Errorf("extractor ran %d times on a failing lookup, want 0", enricher.calls)
	}
}
