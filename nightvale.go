package main

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/mmcdole/gofeed"
)

// newNightValeProvider handles the Night Vale Presents network, whose feeds
// bury most episode metadata in conventions: the episode number leads the
// title, the album is implied by title keywords, and credits live as
// free-text lines inside the episode summary.
func newNightValeProvider(feed *gofeed.Feed, entry *gofeed.Item) Provider {
	p := newRSSProvider(feed, entry).(*provider)

	number, title := splitNumberTitle(entry.Title)
	p.fields[FieldEpisodeNumber] = constant(number)
	p.fields[FieldEpisodeTitle] = constant(title)

	summary := ""
	if raw := entrySummary(entry); raw != "" {
		summary = renderText(raw)
	}
	p.fields[FieldAlbum] = constant(inferAlbum(entry.Title, summary))

	c := extractCredits(summary)
	if len(c.hosts) > 0 {
		p.fields[FieldHosts] = constant(c.hosts)
	}
	if c.guests != "" {
		p.fields[FieldGuests] = constant([]string{c.guests})
	}
	if c.directors != "" {
		p.fields[FieldDirectors] = constant([]string{c.directors})
	}
	if c.producers != "" {
		p.fields[FieldProducers] = constant([]string{c.producers})
	}
	if c.editors != "" {
		p.fields[FieldEditors] = constant([]string{c.editors})
	}

	return p
}

var numberTitleRe = regexp.MustCompile(`^(\d+)\s*-\s*(.+)$`)

// splitNumberTitle splits a "42 - Condos" style title into episode number
// and remainder. Titles without a leading number keep their full text and
// report number zero.
func splitNumberTitle(title string) (int, string) {
	m := numberTitleRe.FindStringSubmatch(title)
	if m == nil {
		return 0, title
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, title
	}
	return n, m[2]
}

// inferAlbum derives the album from title keywords. The tests run in order
// and the first match wins; the live-show test also consults the summary.
func inferAlbum(title, summary string) string {
	t := strings.ToLower(title)
	switch {
	case strings.Contains(t, "bonus"):
		return "Bonus Episodes"
	case strings.Contains(t, "live") || strings.Contains(strings.ToLower(summary), "live"):
		return "Live Shows"
	case strings.Contains(t, "weather"):
		return "The Weather"
	}
	return ""
}

type credits struct {
	hosts     []string
	guests    string
	directors string
	producers string
	editors   string
}

// extractCredits scans the plain-text summary line by line for the fixed
// credit markers. Hosts accumulate across lines; the single-valued fields
// keep their first hit.
func extractCredits(text string) credits {
	var c credits
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.Contains(line, "Narrated") {
			if v := afterMarker(line, " by "); v != "" {
				c.hosts = append(c.hosts, v)
			}
		}
		if strings.Contains(line, "Weather") && c.guests == "" {
			c.guests = afterMarker(line, ": ")
		}
		if strings.Contains(line, "Written") && c.directors == "" {
			c.directors = afterMarker(line, " by ")
		}
		if strings.Contains(line, "Music") && c.producers == "" {
			c.producers = afterMarker(line, " by ")
		}
		if strings.Contains(line, "Logo") && c.editors == "" {
			c.editors = afterMarker(line, ": ")
		}
	}
	return c
}

// afterMarker returns the trimmed text following the first occurrence of
// delim, or "" when delim is absent.
func afterMarker(line, delim string) string {
	_, rest, ok := strings.Cut(line, delim)
	if !ok {
		return ""
	}
	return strings.TrimSpace(rest)
}
