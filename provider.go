package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/mmcdole/gofeed"
)

// Provider translates one entry's raw, inconsistent feed data into canonical
// metadata. A field is either declared supported by a concrete per-network
// variant or it is not; querying an unsupported field is a contract
// violation, not a default.
type Provider interface {
	// Supports reports whether the provider computes the given field.
	Supports(Field) bool
	// Value computes a supported field. It returns UnsupportedFieldError
	// for fields Supports reports false for. Values are string, int,
	// time.Time, []string, or Artwork.
	Value(Field) (any, error)
	// Lookup resolves a name to text for path templating: a supported
	// canonical field first, then the raw entry's field of that name, then
	// the raw feed's, then LookupError.
	Lookup(name string) (string, error)
}

type fieldFunc func() (any, error)

// provider is the shared implementation behind every network variant. The
// variant constructors differ only in which fields they install.
type provider struct {
	feed   *gofeed.Feed
	entry  *gofeed.Item
	fields map[Field]fieldFunc
}

func (p *provider) Supports(f Field) bool {
	_, ok := p.fields[f]
	return ok
}

func (p *provider) Value(f Field) (any, error) {
	fn, ok := p.fields[f]
	if !ok {
		return nil, &UnsupportedFieldError{Field: f}
	}
	return fn()
}

func (p *provider) Lookup(name string) (string, error) {
	if fn, ok := p.fields[Field(name)]; ok {
		v, err := fn()
		if err != nil {
			return "", err
		}
		return stringifyValue(v)
	}
	if v, ok := entryField(p.entry, name); ok {
		return v, nil
	}
	if v, ok := feedField(p.feed, name); ok {
		return v, nil
	}
	return "", &LookupError{Name: name}
}

// constant wraps an already-computed value as a field accessor
func constant(v any) fieldFunc {
	return func() (any, error) { return v, nil }
}

// stringifyValue renders a canonical field value as template text
func stringifyValue(v any) (string, error) {
	switch v := v.(type) {
	case string:
		return v, nil
	case int:
		return strconv.Itoa(v), nil
	case []string:
		return strings.Join(v, ", "), nil
	case time.Time:
		return v.UTC().Format("2006-01-02"), nil
	case Artwork:
		return v.URL, nil
	}
	return "", fmt.Errorf("cannot render %T as text", v)
}

// entryField resolves a raw entry field by name
func entryField(entry *gofeed.Item, name string) (string, bool) {
	switch name {
	case "id", "guid":
		return entry.GUID, true
	case "title":
		return entry.Title, true
	case "link":
		return entry.Link, true
	case "description":
		return entry.Description, true
	case "published":
		return entry.Published, true
	case "author":
		if len(entry.Authors) > 0 {
			return entry.Authors[0].Name, true
		}
	case "subtitle":
		if entry.ITunesExt != nil {
			return entry.ITunesExt.Subtitle, true
		}
	}
	return "", false
}

// feedField resolves a raw feed-level field by name
func feedField(feed *gofeed.Feed, name string) (string, bool) {
	switch name {
	case "feed_title":
		return feed.Title, true
	case "feed_link":
		return feed.Link, true
	case "feed_description":
		return feed.Description, true
	case "language":
		return feed.Language, true
	case "image":
		if feed.Image != nil {
			return feed.Image.URL, true
		}
	case "title":
		return feed.Title, true
	case "copyright":
		return feed.Copyright, true
	case "publisher":
		if feed.ITunesExt != nil {
			return feed.ITunesExt.Author, true
		}
	}
	return "", false
}

// providerRegistry maps config provider ids to constructors
var providerRegistry = map[string]func(*gofeed.Feed, *gofeed.Item) Provider{
	"base":      newBaseProvider,
	"rss":       newRSSProvider,
	"nightvale": newNightValeProvider,
}

func knownProvider(id string) bool {
	_, ok := providerRegistry[id]
	return ok
}

func providerIDs() []string {
	ids := make([]string, 0, len(providerRegistry))
	for id := range providerRegistry {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// newProvider instantiates the registered provider for one entry
func newProvider(id string, feed *gofeed.Feed, entry *gofeed.Item) (Provider, error) {
	ctor, ok := providerRegistry[id]
	if !ok {
		return nil, &ConfigError{Detail: fmt.Sprintf("unknown provider %q (have %s)",
			id, strings.Join(providerIDs(), ", "))}
	}
	return ctor(feed, entry), nil
}

// newBaseProvider supports no fields at all. Only raw entry and feed fields
// resolve through Lookup.
func newBaseProvider(feed *gofeed.Feed, entry *gofeed.Item) Provider {
	return &provider{feed: feed, entry: entry, fields: map[Field]fieldFunc{}}
}

// renderText converts an HTML fragment to line-oriented plain text. Input
// that fails to convert passes through unchanged. Each call gets its own
// converter; entries render concurrently.
func renderText(html string) string {
	text, err := md.NewConverter("", true, nil).ConvertString(html)
	if err != nil {
		return html
	}
	return text
}
