// Package models defines the domain types for niftynet.
package models

import (
	"strings"
	"time"
)

// KnownCategories is the fixed category enumeration. Entries may carry
// tags outside this list; they are kept and rendered under the "other"
// styling rather than dropped.
var KnownCategories = []string{
	"coding",
	"creating",
	"gaming",
	"random",
	"GenAI",
	"educational",
	"informational",
	"useful",
	"group",
	"other",
}

// CatalogEntry is a persisted record describing one cataloged website.
// Immutable after creation except for title/description/image, which an
// explicit metadata refresh may replace.
type CatalogEntry struct {
	ID             string    `json:"id"`
	URL            string    `json:"url"`
	VideoSourceURL string    `json:"videoSourceUrl"`
	Categories     []string  `json:"categories"`
	Notes          string    `json:"notes,omitempty"`
	Title          string    `json:"title,omitempty"`
	Description    string    `json:"description,omitempty"`
	Image          string    `json:"image,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

// DisplayTitle returns the scraped title, or the URL when no title was
// obtained. Every display and sort path goes through this fallback.
func (e CatalogEntry) DisplayTitle() string {
	if e.Title != "" {
		return e.Title
	}
	return e.URL
}

// HasCategory reports whether tag is in the entry's category set.
func (e CatalogEntry) HasCategory(tag string) bool {
	for _, c := range e.Categories {
		if c == tag {
			return true
		}
	}
	return false
}

// IsKnownCategory reports whether tag is part of the fixed enumeration.
func IsKnownCategory(tag string) bool {
	for _, c := range KnownCategories {
		if c == tag {
			return true
		}
	}
	return false
}

// NormalizeCategories trims whitespace, drops empty tags, and collapses
// duplicates while preserving first-seen order. A nil input yields an
// empty (non-nil) slice so JSON encodes as [].
func NormalizeCategories(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
