package main

import (
	"errors"
	"testing"
	"time"

	"github.com/mmcdole/gofeed"
)

func testFeed() *gofeed.Feed {
	return &gofeed.Feed{
		Title:     "Test Cast",
		Link:      "https://example.com/",
		Copyright: "© 2023 Test Cast",
		Language:  "en",
	}
}

func testEntry() *gofeed.Item {
	published := time.Date(2023, 1, 2, 15, 4, 5, 0, time.UTC)
	return &gofeed.Item{
		Title:           "42 - Condos",
		GUID:            "ep-42",
		Link:            "https://example.com/ep/42",
		Description:     "A fine episode.",
		PublishedParsed: &published,
	}
}

func TestBaseProviderSupportsNothing(t *testing.T) {
	p := newBaseProvider(testFeed(), testEntry())

	fields := []Field{
		FieldEpisodeID, FieldEpisodeTitle, FieldEpisodeNumber,
		FieldAlbum, FieldPubDate, FieldHosts,
	}
	for _, f := range fields {
		if p.Supports(f) {
			t.Errorf("base provider Supports(%q) = true, want false", f)
		}
		_, err := p.Value(f)
		var ufe *UnsupportedFieldError
		if !errors.As(err, &ufe) {
			t.Errorf("base provider Value(%q) error = %v, want UnsupportedFieldError", f, err)
		}
	}
}

func TestLookupChain(t *testing.T) {
	p := newRSSProvider(testFeed(), testEntry())

	tests := []struct {
		name     string
		lookup   string
		expected string
	}{
		{"canonical field", "episode_title", "42 - Condos"},
		{"canonical feed-sourced field", "copyright", "© 2023 Test Cast"},
		{"raw entry field", "id", "ep-42"},
		{"raw feed field", "language", "en"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := p.Lookup(tt.lookup)
			if err != nil {
				t.Fatalf("Lookup(%q) error = %v", tt.lookup, err)
			}
			if result != tt.expected {
				t.Errorf("Lookup(%q) = %q, want %q", tt.lookup, result, tt.expected)
			}
		})
	}
}

func TestLookupNotFound(t *testing.T) {
	p := newBaseProvider(testFeed(), testEntry())

	_, err := p.Lookup("nonexistent")
	var le *LookupError
	if !errors.As(err, &le) {
		t.Fatalf("Lookup() error = %v, want LookupError", err)
	}
	if le.Name != "nonexistent" {
		t.Errorf("LookupError.Name = %q, want %q", le.Name, "nonexistent")
	}
}

func TestStringifyValue(t *testing.T) {
	tests := []struct {
		name     string
		value    any
		expected string
	}{
		{"string", "hello", "hello"},
		{"int", 42, "42"},
		{"list", []string{"a", "b"}, "a, b"},
		{"time", time.Date(2023, 3, 5, 23, 30, 0, 0, time.UTC), "2023-03-05"},
		{"artwork", Artwork{URL: "https://example.com/art.png"}, "https://example.com/art.png"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := stringifyValue(tt.value)
			if err != nil {
				t.Fatalf("stringifyValue() error = %v", err)
			}
			if result != tt.expected {
				t.Errorf("stringifyValue() = %q, want %q", result, tt.expected)
			}
		})
	}
}

func TestNewProviderUnknown(t *testing.T) {
	_, err := newProvider("gopher", testFeed(), testEntry())
	var ce *ConfigError
	if !errors.As(err, &ce) {
		t.Fatalf("newProvider() error = %v, want ConfigError", err)
	}
}

func TestRSSProviderFields(t *testing.T) {
	feed := testFeed()
	entry := testEntry()
	p := newRSSProvider(feed, entry)

	if !p.Supports(FieldEpisodeID) {
		t.Error("rss provider should support episode_id for an entry with a GUID")
	}
	if p.Supports(FieldAlbum) {
		t.Error("rss provider should not support album")
	}
	v, err := p.Value(FieldPubDate)
	if err != nil {
		t.Fatalf("Value(pub_date) error = %v", err)
	}
	if ts, ok := v.(time.Time); !ok || !ts.Equal(*entry.PublishedParsed) {
		t.Errorf("Value(pub_date) = %v, want %v", v, entry.PublishedParsed)
	}
}
