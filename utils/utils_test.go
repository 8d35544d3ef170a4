package utils

import (
	"net/http/httptest"
	"testing"
)

func TestGenerateID(t *testing.T) {
	id := GenerateID(12)
	if len(id) != 12 {
		t.Fatalf("expected length 12, got %d", len(id))
	}
	if id == GenerateID(12) {
		t.Fatal("two ids in a row should not collide")
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Coffee Route", "coffee-route"},
		{"  Valle del Cocora!  ", "valle-del-cocora"},
		{"Tour #1 (2026)", "tour-1-2026"},
		{"---", ""},
		{"", ""},
	}
	for _, tc := range tests {
		if got := Slugify(tc.in); got != tc.want {
			t.Fatalf("Slugify(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestParseQueryOptions(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/tours?page=3&limit=20&lang=en", nil)
	opts := ParseQueryOptions(r)
	if opts.Page != 3 || opts.Limit != 20 || opts.Lang != "en" {
		t.Fatalf("unexpected options: %+v", opts)
	}
	if opts.Skip() != 40 {
		t.Fatalf("expected skip 40, got %d", opts.Skip())
	}

	// defaults kick in for absent or nonsense values
	r = httptest.NewRequest("GET", "/api/tours?page=-1&limit=abc", nil)
	opts = ParseQueryOptions(r)
	if opts.Page != 1 || opts.Limit != 10 || opts.Lang != "es" {
		t.Fatalf("unexpected defaults: %+v", opts)
	}
}

func TestTotalPages(t *testing.T) {
	tests := []struct {
		total int64
		limit int
		want  int64
	}{
		{0, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{5, 0, 0},
	}
	for _, tc := range tests {
		if got := TotalPages(tc.total, tc.limit); got != tc.want {
			t.Fatalf("TotalPages(%d, %d) = %d, want %d", tc.total, tc.limit, got, tc.want)
		}
	}
}
