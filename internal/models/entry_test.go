package models

import (
	"reflect"
	"testing"
)

func TestDisplayTitleFallback(t *testing.T) {
	e := CatalogEntry{URL: "https://example.com"}
	if got := e.DisplayTitle(); got != "https://example.com" {
		t.Errorf("DisplayTitle() = %q, want URL fallback", got)
	}
	e.Title = "Example"
	if got := e.DisplayTitle(); got != "Example" {
		t.Errorf("DisplayTitle() = %q, want Example", got)
	}
}

func TestNormalizeCategories(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"nil", nil, []string{}},
		{"dedupe keeps first-seen order", []string{"gaming", "coding", "gaming"}, []string{"gaming", "coding"}},
		{"trims and drops empties", []string{" coding ", "", "  "}, []string{"coding"}},
		{"unknown tags preserved", []string{"coding", "weird-tag"}, []string{"coding", "weird-tag"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeCategories(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("NormalizeCategories(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestIsKnownCategory(t *testing.T) {
	if !IsKnownCategory("GenAI") {
		t.Error("GenAI should be a known category")
	}
	if IsKnownCategory("genai") {
		t.Error("category matching is case-sensitive")
	}
	if IsKnownCategory("weird-tag") {
		t.Error("weird-tag should not be known")
	}
}
