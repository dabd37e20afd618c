package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/mmcdole/gofeed"
	"golang.org/x/sync/errgroup"
)

// Processor drives the full pipeline: fetch feeds sequentially, process
// entries on a bounded worker pool, isolate every per-feed and per-entry
// failure.
type Processor struct {
	settings   Settings
	feeds      []FeedConfig
	cache      *Cache
	fetcher    *FeedFetcher
	downloader *Downloader
}

// NewProcessor creates a processor. The data and cache directories must
// already be initialized.
func NewProcessor(settings Settings, feeds []FeedConfig) (*Processor, error) {
	cache, err := NewCache(cacheDir(settings))
	if err != nil {
		return nil, err
	}

	client := &http.Client{Timeout: 10 * time.Minute}

	return &Processor{
		settings:   settings,
		feeds:      feeds,
		cache:      cache,
		fetcher:    NewFeedFetcher(client),
		downloader: NewDownloader(client),
	}, nil
}

// Run processes every configured feed and blocks until all submitted entry
// tasks finish. Cancelling ctx stops submission of new work; in-flight
// entries run to completion.
func (p *Processor) Run(ctx context.Context) []ProcessingResult {
	var (
		mu      sync.Mutex
		results []ProcessingResult
	)

	g := new(errgroup.Group)
	g.SetLimit(p.settings.Workers)

submission:
	for _, fc := range p.feeds {
		if ctx.Err() != nil {
			break
		}

		feed, err := p.fetcher.Fetch(ctx, fc.URL)
		if err != nil {
			log.Printf("✗ feed %s: %v", fc.URL, err)
			mu.Lock()
			results = append(results, ProcessingResult{Feed: fc.URL, Status: StatusError, Error: err})
			mu.Unlock()
			continue
		}

		for _, entry := range feed.Items {
			if ctx.Err() != nil {
				break submission
			}
			fc, entry := fc, entry
			g.Go(func() error {
				result := p.processEntry(fc, feed, entry)
				if result.Status == StatusError {
					log.Printf("✗ %s: %s: %v", result.Feed, result.Entry, result.Error)
				}
				mu.Lock()
				results = append(results, result)
				mu.Unlock()
				return nil
			})
		}
	}

	g.Wait()
	return results
}

// processEntry runs the pipeline for one entry. Every failure is caught
// here and reported as a failed result, never propagated to siblings.
func (p *Processor) processEntry(fc FeedConfig, feed *gofeed.Feed, entry *gofeed.Item) ProcessingResult {
	result := ProcessingResult{Feed: feed.Title, Entry: entry.Title}
	fail := func(err error) ProcessingResult {
		result.Status = StatusError
		result.Error = err
		return result
	}

	fp := fingerprint(fc.URL, entryID(entry))
	done, err := p.cache.Lookup(fp)
	if err != nil {
		return fail(err)
	}
	if done {
		result.Status = StatusSkipped
		return result
	}

	log.Printf("%s: %s", feed.Title, entry.Title)

	_, audioURL, err := selectAudioAsset(entry)
	if err != nil {
		return fail(err)
	}

	buf, err := os.CreateTemp("", "podtag-*")
	if err != nil {
		return fail(fmt.Errorf("creating audio buffer: %w", err))
	}
	defer os.Remove(buf.Name())
	defer buf.Close()

	if _, err := p.downloader.ToFile(audioURL, buf); err != nil {
		return fail(err)
	}
	if _, err := buf.Seek(0, io.SeekStart); err != nil {
		return fail(fmt.Errorf("rewinding audio buffer: %w", err))
	}

	container, err := parseContainer(buf)
	if err != nil {
		return fail(err)
	}

	prov, err := newProvider(fc.Provider, feed, entry)
	if err != nil {
		return fail(err)
	}

	if err := fixTags(container, prov, p.downloader.Blob); err != nil {
		return fail(err)
	}

	dest, err := p.destPath(fc, container, prov)
	if err != nil {
		return fail(err)
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return fail(fmt.Errorf("creating %s: %w", filepath.Dir(dest), err))
	}

	out, err := os.Create(dest)
	if err != nil {
		return fail(fmt.Errorf("creating %s: %w", dest, err))
	}
	if _, err := container.WriteTo(out); err != nil {
		out.Close()
		return fail(fmt.Errorf("writing %s: %w", dest, err))
	}
	if err := out.Close(); err != nil {
		return fail(fmt.Errorf("closing %s: %w", dest, err))
	}

	// The destination file is fully written; only now does the entry count
	// as processed.
	if err := p.cache.Commit(fp); err != nil {
		return fail(err)
	}

	log.Printf("-> %s", dest)
	result.Status = StatusSuccess
	result.Filename = dest
	return result
}

// entryID picks the stable identity of an entry for fingerprinting
func entryID(entry *gofeed.Item) string {
	if entry.GUID != "" {
		return entry.GUID
	}
	if entry.Link != "" {
		return entry.Link
	}
	return entry.Title
}

// selectAudioAsset scans enclosures and media:content extensions for
// distinct (MIME, URL) pairs with an audio MIME type. Exactly one candidate
// must exist; zero or several is a hard failure, never a first-wins pick.
func selectAudioAsset(entry *gofeed.Item) (mimeType, url string, err error) {
	type asset struct{ mime, url string }
	seen := make(map[asset]struct{})
	var assets []asset

	add := func(mime, url string) {
		if !strings.HasPrefix(mime, "audio/") || url == "" {
			return
		}
		a := asset{mime: mime, url: url}
		if _, dup := seen[a]; dup {
			return
		}
		seen[a] = struct{}{}
		assets = append(assets, a)
	}

	for _, enc := range entry.Enclosures {
		if enc != nil {
			add(enc.Type, enc.URL)
		}
	}
	for _, ext := range entry.Extensions["media"]["content"] {
		add(ext.Attrs["type"], ext.Attrs["url"])
	}

	if len(assets) != 1 {
		urls := make([]string, len(assets))
		for i, a := range assets {
			urls[i] = a.url
		}
		return "", "", &AmbiguousAssetError{URLs: urls}
	}
	return assets[0].mime, assets[0].url, nil
}

// destPath formats the feed's file pattern, appends the extension derived
// from the container's MIME types, and sanitizes the result under the data
// directory.
func (p *Processor) destPath(fc FeedConfig, c Container, prov Provider) (string, error) {
	formatted, err := formatPattern(fc.FilePattern, prov)
	if err != nil {
		return "", err
	}
	ext, err := extensionFor(c.MIMETypes())
	if err != nil {
		return "", err
	}
	return filepath.Join(p.settings.DataDir, sanitizePath(formatted+ext)), nil
}

var placeholderRe = regexp.MustCompile(`\{([a-z_]+)\}`)

// formatPattern substitutes {field} placeholders through the provider's
// lookup chain. Names that resolve nowhere stay verbatim; other lookup
// failures abort the entry.
func formatPattern(pattern string, prov Provider) (string, error) {
	var lookupErr error
	out := placeholderRe.ReplaceAllStringFunc(pattern, func(m string) string {
		name := m[1 : len(m)-1]
		v, err := prov.Lookup(name)
		if err != nil {
			var le *LookupError
			if !errors.As(err, &le) && lookupErr == nil {
				lookupErr = err
			}
			return m
		}
		return v
	})
	return out, lookupErr
}

var unsafePathChars = regexp.MustCompile(`[<>:"\\|?*\x00-\x1f]`)

// sanitizePath scrubs a formatted pattern for the target filesystem,
// segment by segment. Slashes in the pattern are directory separators and
// survive.
func sanitizePath(p string) string {
	segments := strings.Split(p, "/")
	cleaned := make([]string, 0, len(segments))
	for _, seg := range segments {
		seg = unsafePathChars.ReplaceAllString(seg, "")
		seg = strings.TrimSpace(seg)
		if seg == "" {
			continue
		}
		if seg == "." || seg == ".." {
			seg = "_"
		}
		cleaned = append(cleaned, seg)
	}
	if len(cleaned) == 0 {
		return "_"
	}
	return filepath.Join(cleaned...)
}

// audioExtensions maps audio MIME types to extensions deterministically;
// the platform MIME table does not know audio/mpeg everywhere.
var audioExtensions = map[string]string{
	"audio/mpeg":  ".mp3",
	"audio/mp3":   ".mp3",
	"audio/mp4":   ".m4a",
	"audio/x-m4a": ".m4a",
	"audio/aac":   ".aac",
	"audio/ogg":   ".ogg",
	"audio/opus":  ".opus",
	"audio/flac":  ".flac",
	"audio/wav":   ".wav",
	"audio/x-wav": ".wav",
}

// extensionFor returns the extension for the first MIME type that maps to
// one. None mapping is a hard failure.
func extensionFor(mimes []string) (string, error) {
	for _, m := range mimes {
		if ext, ok := audioExtensions[m]; ok {
			return ext, nil
		}
		if exts, err := mime.ExtensionsByType(m); err == nil && len(exts) > 0 {
			return exts[0], nil
		}
	}
	return "", &MissingExtensionError{MIMEs: mimes}
}
