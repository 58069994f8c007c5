// Package query implements the catalog view computation: filtering,
// searching, and sorting the in-memory entry set against one
// personalization snapshot.
//
// Apply is a pure function of its inputs. Given the same entries,
// snapshot, and options it returns the same sequence, so the
// presentation layer can re-invoke it on every keystroke and every
// filter/sort combination is independently testable.
package query

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"niftynet/internal/models"
	"niftynet/internal/personalization"
)

// Sort keys.
const (
	SortByTitle     = "title"
	SortByCreatedAt = "createdAt"
)

// Options selects and orders entries. The zero value matches everything
// and sorts by display title.
type Options struct {
	// SearchText matches case-insensitively against the display title
	// (title, or URL when absent) or as a raw substring of the URL.
	// Empty matches everything.
	SearchText string

	// Categories passes an entry when its category set intersects this
	// set (OR across selected categories). Empty means no restriction.
	Categories []string

	// SortKey is SortByTitle (ascending, locale-aware) or
	// SortByCreatedAt (newest first). Anything else falls back to
	// title order.
	SortKey string

	// FavoritesOnly passes only entries whose id is in the snapshot's
	// favorite set.
	FavoritesOnly bool

	// NotedOnly passes only entries with a note key in the snapshot.
	// An explicitly saved empty note counts.
	NotedOnly bool
}

// Apply filters entries by the AND of the four predicates (search,
// category, favorites, noted), then sorts by the designated key. The
// sort is stable: ties keep input order. A nil entry slice (source
// still loading) yields an empty result.
func Apply(entries []models.CatalogEntry, snap personalization.Snapshot, opts Options) []models.CatalogEntry {
	out := make([]models.CatalogEntry, 0, len(entries))
	search := strings.ToLower(strings.TrimSpace(opts.SearchText))

	for _, e := range entries {
		if !matchesSearch(e, opts.SearchText, search) {
			continue
		}
		if !matchesCategories(e, opts.Categories) {
			continue
		}
		if opts.FavoritesOnly && !snap.IsFavorite(e.ID) {
			continue
		}
		if opts.NotedOnly && !snap.HasNote(e.ID) {
			continue
		}
		out = append(out, e)
	}

	sortEntries(out, opts.SortKey)
	return out
}

// matchesSearch implements the two-armed search: case-insensitive
// substring on the display title, or raw substring on the URL. The URL
// arm matches the search text exactly as typed, whitespace included.
func matchesSearch(e models.CatalogEntry, raw, lowered string) bool {
	if lowered == "" {
		return true
	}
	if strings.Contains(strings.ToLower(e.DisplayTitle()), lowered) {
		return true
	}
	return strings.Contains(e.URL, raw)
}

// matchesCategories passes when the filter is empty or intersects the
// entry's categories. An entry with no categories never matches a
// non-empty filter.
func matchesCategories(e models.CatalogEntry, filter []string) bool {
	if len(filter) == 0 {
		return true
	}
	for _, want := range filter {
		if e.HasCategory(want) {
			return true
		}
	}
	return false
}

func sortEntries(entries []models.CatalogEntry, key string) {
	switch key {
	case SortByCreatedAt:
		// Newest first is the only direction offered for the time key.
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].CreatedAt.After(entries[j].CreatedAt)
		})
	default:
		c := collate.New(language.Und, collate.Loose)
		sort.SliceStable(entries, func(i, j int) bool {
			return c.CompareString(entries[i].DisplayTitle(), entries[j].DisplayTitle()) < 0
		})
	}
}
