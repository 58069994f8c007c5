package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"niftynet/internal/apperr"
	"niftynet/internal/models"
)

// Draft holds the caller-supplied fields of a new entry. The store
// assigns the id and creation timestamp.
type Draft struct {
	URL            string
	VideoSourceURL string
	Categories     []string
	Notes          string
	Title          string
	Description    string
	Image          string
}

// Create persists one new entry and returns it with id and createdAt
// assigned. Either the whole entry is stored or nothing is.
func (db *DB) Create(ctx context.Context, d Draft) (models.CatalogEntry, error) {
	e := models.CatalogEntry{
		ID:             uuid.NewString(),
		URL:            d.URL,
		VideoSourceURL: d.VideoSourceURL,
		Categories:     models.NormalizeCategories(d.Categories),
		Notes:          d.Notes,
		Title:          d.Title,
		Description:    d.Description,
		Image:          d.Image,
		CreatedAt:      time.Now().UTC(),
	}

	catsJSON, err := json.Marshal(e.Categories)
	if err != nil {
		return models.CatalogEntry{}, fmt.Errorf("catalog: marshal categories: %w", err)
	}

	_, err = db.conn.ExecContext(ctx, `
		INSERT INTO websites (id, url, video_source_url, categories, notes, title, description, image, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, e.ID, e.URL, e.VideoSourceURL, string(catsJSON), e.Notes, e.Title, e.Description, e.Image, e.CreatedAt)
	if err != nil {
		return models.CatalogEntry{}, fmt.Errorf("catalog: insert: %w", err)
	}
	return e, nil
}

// Get returns a single entry by id, or apperr.ErrNotFound.
func (db *DB) Get(ctx context.Context, id string) (models.CatalogEntry, error) {
	row := db.conn.QueryRowContext(ctx, `
		SELECT id, url, video_source_url, categories, notes, title, description, image, created_at
		FROM websites WHERE id = ?
	`, id)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.CatalogEntry{}, apperr.ErrNotFound
	}
	if err != nil {
		return models.CatalogEntry{}, fmt.Errorf("catalog: get %s: %w", id, err)
	}
	return e, nil
}

// List returns every entry, newest first. Creation-time ties break on
// id so the order is reproducible.
func (db *DB) List(ctx context.Context) ([]models.CatalogEntry, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT id, url, video_source_url, categories, notes, title, description, image, created_at
		FROM websites
		ORDER BY created_at DESC, id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("catalog: list: %w", err)
	}
	defer rows.Close()

	out := []models.CatalogEntry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("catalog: scan: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// UpdateMetadata replaces title, description, and image for an existing
// entry. All other columns are untouched; this backs the explicit
// refresh operation.
func (db *DB) UpdateMetadata(ctx context.Context, id, title, description, image string) error {
	res, err := db.conn.ExecContext(ctx, `
		UPDATE websites SET title = ?, description = ?, image = ? WHERE id = ?
	`, title, description, image, id)
	if err != nil {
		return fmt.Errorf("catalog: update metadata: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("catalog: rows affected: %w", err)
	}
	if n == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// Count returns the number of stored entries.
func (db *DB) Count(ctx context.Context) (int, error) {
	var n int
	if err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM websites`).Scan(&n); err != nil {
		return 0, fmt.Errorf("catalog: count: %w", err)
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(s scanner) (models.CatalogEntry, error) {
	var e models.CatalogEntry
	var catsJSON string
	if err := s.Scan(&e.ID, &e.URL, &e.VideoSourceURL, &catsJSON, &e.Notes, &e.Title, &e.Description, &e.Image, &e.CreatedAt); err != nil {
		return models.CatalogEntry{}, err
	}
	if err := json.Unmarshal([]byte(catsJSON), &e.Categories); err != nil || e.Categories == nil {
		// A mangled categories column degrades to empty rather than
		// failing the whole listing.
		e.Categories = []string{}
	}
	return e, nil
}
