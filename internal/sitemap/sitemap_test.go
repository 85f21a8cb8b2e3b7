package sitemap

import (
	"encoding/xml"
	"strings"
	"testing"
	"time"

	"github.com/sfvdirectory/sitegen/internal/models"
)

func TestBuild(t *testing.T) {
	now := time.Date(2024, 5, 10, 23, 30, 0, 0, time.FixedZone("PDT", -7*3600))
	updated := time.Date(2024, 1, 2, 15, 0, 0, 0, time.UTC)

	businesses := []*models.Business{
		{Slug: "joes-diner", UpdatedAt: &updated},
		{Slug: "no-date"},
	}
	categories := []*models.Category{{Slug: "restaurants"}}

	set := New("https://example.test/").Build(now, businesses, categories)

	want := []URL{
		{Loc: "https://example.test", LastMod: "2024-05-11", ChangeFreq: "weekly", Priority: "1.0"},
		{Loc: "https://example.test/business/joes-diner", LastMod: "2024-01-02", ChangeFreq: "weekly", Priority: "0.8"},
		{Loc: "https://example.test/business/no-date", LastMod: "2024-05-11", ChangeFreq: "weekly", Priority: "0.8"},
		{Loc: "https://example.test/restaurants", LastMod: "2024-05-11", ChangeFreq: "weekly", Priority: "0.6"},
	}

	if len(set.URLs) != len(want) {
		t.Fatalf("Expected %d URLs, got %d", len(want), len(set.URLs))
	}
	for i := range want {
		if set.URLs[i] != want[i] {
			t.Errorf("URL %d = %+v, want %+v", i, set.URLs[i], want[i])
		}
	}
}

func TestMarshal(t *testing.T) {
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	set := New("https://example.test").Build(now, []*models.Business{{Slug: "a&b"}}, nil)

	data, err := set.Marshal()
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	doc := string(data)

	if !strings.HasPrefix(doc, `<?xml version="1.0" encoding="UTF-8"?>`) {
		t.Errorf("Missing XML header: %q", doc[:40])
	}
	if !strings.Contains(doc, `<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">`) {
		t.Error("Missing urlset namespace")
	}
	if !strings.Contains(doc, "<loc>https://example.test/business/a&amp;b</loc>") {
		t.Error("Locations must be XML-escaped")
	}

	var parsed URLSet
	if err := xml.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("Sitemap is not well-formed XML: %v", err)
	}
	if len(parsed.URLs) != 2 {
		t.Errorf("Expected 2 URLs after round trip, got %d", len(parsed.URLs))
	}
}
