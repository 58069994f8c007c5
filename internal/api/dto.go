package api

import (
	"niftynet/internal/metadata"
	"niftynet/internal/models"
)

// CreateEntryRequest is the request body for submitting a website.
type CreateEntryRequest struct {
	URL            string   `json:"url"`
	VideoSourceURL string   `json:"videoSourceUrl"`
	Categories     []string `json:"categories"`
	Notes          string   `json:"notes"`
}

// MetadataRequest is the request body for the best-effort metadata
// preview endpoint.
type MetadataRequest struct {
	URL string `json:"url"`
}

// NoteRequest is the request body for saving a device-local note.
type NoteRequest struct {
	Text string `json:"text"`
}

// FavoriteResponse reports the favorite state after a toggle.
type FavoriteResponse struct {
	ID      string `json:"id"`
	Favored bool   `json:"favored"`
}

// CatalogEntry is the entry response type (aliased from the domain layer).
type CatalogEntry = models.CatalogEntry

// MetadataResult is the extraction response type (aliased from the
// metadata layer).
type MetadataResult = metadata.Result
