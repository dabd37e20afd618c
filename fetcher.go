package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/mmcdole/gofeed"
)

// FeedFetcher fetches and parses feeds over HTTP
type FeedFetcher struct {
	parser *gofeed.Parser
}

// NewFeedFetcher creates a feed fetcher that shares the given HTTP client
func NewFeedFetcher(client *http.Client) *FeedFetcher {
	parser := gofeed.NewParser()
	parser.Client = client
	return &FeedFetcher{parser: parser}
}

// Fetch retrieves and parses the feed at url
func (f *FeedFetcher) Fetch(ctx context.Context, url string) (*gofeed.Feed, error) {
	feed, err := f.parser.ParseURLWithContext(url, ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching feed %s: %w", url, err)
	}
	return feed, nil
}

// Downloader fetches binary payloads over HTTP
type Downloader struct {
	client *http.Client
}

// NewDownloader creates a downloader around the given HTTP client
func NewDownloader(client *http.Client) *Downloader {
	return &Downloader{client: client}
}

// ToFile streams the body at url into w and returns the response content
// type. A non-success status is a hard failure.
func (d *Downloader) ToFile(url string, w io.Writer) (string, error) {
	resp, err := d.client.Get(url)
	if err != nil {
		return "", fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &HTTPError{StatusCode: resp.StatusCode, URL: url}
	}

	if _, err := io.Copy(w, resp.Body); err != nil {
		return "", fmt.Errorf("downloading %s: %w", url, err)
	}

	return bareMIME(resp.Header.Get("Content-Type")), nil
}

// Blob gets the binary data of a URL together with its content type
func (d *Downloader) Blob(url string) ([]byte, string, error) {
	resp, err := d.client.Get(url)
	if err != nil {
		return nil, "", fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, "", &HTTPError{StatusCode: resp.StatusCode, URL: url}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("reading %s: %w", url, err)
	}

	return body, bareMIME(resp.Header.Get("Content-Type")), nil
}

// bareMIME strips parameters from an extended MIME type ("image/jpeg;
// charset=binary" becomes "image/jpeg").
func bareMIME(contentType string) string {
	mime, _, _ := strings.Cut(contentType, ";")
	return strings.TrimSpace(mime)
}
