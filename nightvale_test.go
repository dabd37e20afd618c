package main

import (
	"reflect"
	"testing"

	"github.com/mmcdole/gofeed"
)

func TestSplitNumberTitle(t *testing.T) {
	tests := []struct {
		name   string
		title  string
		number int
		rest   string
	}{
		{"numbered", "42 - Condos", 42, "Condos"},
		{"no number", "Condos", 0, "Condos"},
		{"tight dash", "12- Thing", 12, "Thing"},
		{"long number", "107 - The Missing Sky", 107, "The Missing Sky"},
		{"leading dash", "- Dash", 0, "- Dash"},
		{"number only", "3 -", 0, "3 -"},
		{"digits inside", "Episode 9 - X", 0, "Episode 9 - X"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			number, rest := splitNumberTitle(tt.title)
			if number != tt.number || rest != tt.rest {
				t.Errorf("splitNumberTitle(%q) = (%d, %q), want (%d, %q)",
					tt.title, number, rest, tt.number, tt.rest)
			}
		})
	}
}

func TestInferAlbum(t *testing.T) {
	tests := []struct {
		name     string
		title    string
		summary  string
		expected string
	}{
		{"bonus", "Bonus 7 - Conversation", "", "Bonus Episodes"},
		{"live in title", "Live at Roseland", "", "Live Shows"},
		{"live in summary", "Condos", "Recorded live in Brooklyn.", "Live Shows"},
		{"weather", "The Weather, Revisited", "", "The Weather"},
		{"bonus beats live", "Bonus - Live Q&A", "", "Bonus Episodes"},
		{"no match", "Condos", "A fine episode.", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := inferAlbum(tt.title, tt.summary)
			if result != tt.expected {
				t.Errorf("inferAlbum(%q, %q) = %q, want %q",
					tt.title, tt.summary, result, tt.expected)
			}
		})
	}
}

func TestExtractCredits(t *testing.T) {
	text := `Condos. The latest from the desert.

Narrated by Cecil Baldwin.
Narrated by Guest Narrator
The Weather: "Neptune's Jewels" by Mystic
Written by Joseph Fink and Jeffrey Cranor
Music by Disparition
Music by Somebody Else
Logo: Rob Wilson`

	c := extractCredits(text)

	wantHosts := []string{"Cecil Baldwin.", "Guest Narrator"}
	if !reflect.DeepEqual(c.hosts, wantHosts) {
		t.Errorf("hosts = %q, want %q", c.hosts, wantHosts)
	}
	if c.guests != `"Neptune's Jewels" by Mystic` {
		t.Errorf("guests = %q", c.guests)
	}
	if c.directors != "Joseph Fink and Jeffrey Cranor" {
		t.Errorf("directors = %q", c.directors)
	}
	if c.producers != "Disparition" {
		t.Errorf("producers = %q, want first match only", c.producers)
	}
	if c.editors != "Rob Wilson" {
		t.Errorf("editors = %q", c.editors)
	}
}

func TestExtractCreditsEmpty(t *testing.T) {
	c := extractCredits("Just a summary with no credits.")
	if len(c.hosts) != 0 || c.guests != "" || c.directors != "" || c.producers != "" || c.editors != "" {
		t.Errorf("extractCredits() found credits in plain text: %+v", c)
	}
}

func TestNightValeProvider(t *testing.T) {
	feed := testFeed()
	entry := testEntry()
	entry.Description = "Narrated by Cecil Baldwin"
	p := newNightValeProvider(feed, entry)

	number, err := p.Value(FieldEpisodeNumber)
	if err != nil {
		t.Fatalf("Value(episode_number) error = %v", err)
	}
	if number != 42 {
		t.Errorf("episode_number = %v, want 42", number)
	}

	title, err := p.Lookup("episode_title")
	if err != nil {
		t.Fatalf("Lookup(episode_title) error = %v", err)
	}
	if title != "Condos" {
		t.Errorf("episode_title = %q, want %q", title, "Condos")
	}

	hosts, err := p.Value(FieldHosts)
	if err != nil {
		t.Fatalf("Value(hosts) error = %v", err)
	}
	if !reflect.DeepEqual(hosts, []string{"Cecil Baldwin"}) {
		t.Errorf("hosts = %v", hosts)
	}

	// No credit lines for these, so the fields stay unsupported.
	if p.Supports(FieldProducers) {
		t.Error("producers should be unsupported without a Music credit")
	}
}

func TestNightValeProviderNoNumber(t *testing.T) {
	entry := &gofeed.Item{Title: "Condos", GUID: "x"}
	p := newNightValeProvider(testFeed(), entry)

	number, err := p.Value(FieldEpisodeNumber)
	if err != nil {
		t.Fatalf("Value(episode_number) error = %v", err)
	}
	if number != 0 {
		t.Errorf("episode_number = %v, want 0", number)
	}
	title, _ := p.Value(FieldEpisodeTitle)
	if title != "Condos" {
		t.Errorf("episode_title = %v, want full title preserved", title)
	}
}
