package main

import (
	"strconv"

	"github.com/mmcdole/gofeed"
)

// newRSSProvider maps plain RSS and iTunes fields straight into the
// canonical vocabulary. Fields the entry's data cannot populate stay
// unsupported.
func newRSSProvider(feed *gofeed.Feed, entry *gofeed.Item) Provider {
	p := &provider{feed: feed, entry: entry, fields: map[Field]fieldFunc{}}

	if entry.GUID != "" {
		p.fields[FieldEpisodeID] = constant(entry.GUID)
	}
	if entry.Link != "" {
		p.fields[FieldEpisodeURL] = constant(entry.Link)
	}
	if entry.Title != "" {
		p.fields[FieldEpisodeTitle] = constant(entry.Title)
	}
	if summary := entrySummary(entry); summary != "" {
		p.fields[FieldSummary] = constant(renderText(summary))
	}
	if entry.PublishedParsed != nil {
		p.fields[FieldPubDate] = constant(*entry.PublishedParsed)
	}
	if art := entryArtwork(feed, entry); art.URL != "" {
		p.fields[FieldEpisodeArt] = constant(art)
	}
	if hosts := entryAuthors(feed, entry); len(hosts) > 0 {
		p.fields[FieldHosts] = constant(hosts)
	}
	if cats := entryCategories(feed, entry); len(cats) > 0 {
		p.fields[FieldCategory] = constant(cats)
	}
	if feed.Copyright != "" {
		p.fields[FieldCopyright] = constant(feed.Copyright)
	}

	if it := entry.ITunesExt; it != nil {
		if it.Subtitle != "" {
			p.fields[FieldEpisodeSubtitle] = constant(it.Subtitle)
		}
		if n, err := strconv.Atoi(it.Episode); err == nil {
			p.fields[FieldEpisodeNumber] = constant(n)
		}
		if it.Season != "" {
			p.fields[FieldSeason] = constant(it.Season)
		}
	}
	if feed.ITunesExt != nil && feed.ITunesExt.Author != "" {
		p.fields[FieldPublisher] = constant(feed.ITunesExt.Author)
	}

	return p
}

func entrySummary(entry *gofeed.Item) string {
	if entry.Description != "" {
		return entry.Description
	}
	return entry.Content
}

// entryArtwork picks episode art, preferring entry-level images over the
// feed image.
func entryArtwork(feed *gofeed.Feed, entry *gofeed.Item) Artwork {
	if entry.Image != nil && entry.Image.URL != "" {
		return Artwork{URL: entry.Image.URL}
	}
	if entry.ITunesExt != nil && entry.ITunesExt.Image != "" {
		return Artwork{URL: entry.ITunesExt.Image}
	}
	if feed.Image != nil && feed.Image.URL != "" {
		return Artwork{URL: feed.Image.URL}
	}
	return Artwork{}
}

func entryAuthors(feed *gofeed.Feed, entry *gofeed.Item) []string {
	authors := entry.Authors
	if len(authors) == 0 {
		authors = feed.Authors
	}
	var names []string
	for _, a := range authors {
		if a != nil && a.Name != "" {
			names = append(names, a.Name)
		}
	}
	return names
}

func entryCategories(feed *gofeed.Feed, entry *gofeed.Item) []string {
	if len(entry.Categories) > 0 {
		return entry.Categories
	}
	return feed.Categories
}
