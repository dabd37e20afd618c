package main

import (
	"fmt"
	"strings"
)

// HTTPError represents an HTTP error with status code
type HTTPError struct {
	StatusCode int
	URL        string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d for %s", e.StatusCode, e.URL)
}

// ConfigError reports a problem with the feeds file or a feed's settings.
type ConfigError struct {
	Detail string
	Err    error
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("config: %s: %v", e.Detail, e.Err)
	}
	return "config: " + e.Detail
}

func (e *ConfigError) Unwrap() error { return e.Err }

// AmbiguousAssetError means an entry did not expose exactly one audio asset.
type AmbiguousAssetError struct {
	URLs []string
}

func (e *AmbiguousAssetError) Error() string {
	if len(e.URLs) == 0 {
		return "no audio asset found in entry"
	}
	return fmt.Sprintf("expected exactly one audio asset, found %d: %s",
		len(e.URLs), strings.Join(e.URLs, ", "))
}

// UnsupportedFormatError means no registered container format matched the
// downloaded payload, or tag synthesis has no handler for the container.
type UnsupportedFormatError struct {
	Detail string
}

func (e *UnsupportedFormatError) Error() string {
	return "unsupported audio format: " + e.Detail
}

// MissingExtensionError means none of the container's MIME types maps to a
// known filename extension.
type MissingExtensionError struct {
	MIMEs []string
}

func (e *MissingExtensionError) Error() string {
	return fmt.Sprintf("no extension found for any of %q", e.MIMEs)
}

// UnsupportedFieldError means a canonical field was queried on a provider
// that does not compute it. Callers are expected to check Supports first.
type UnsupportedFieldError struct {
	Field Field
}

func (e *UnsupportedFieldError) Error() string {
	return fmt.Sprintf("provider does not implement field %q", string(e.Field))
}

// LookupError means a template placeholder matched no canonical field, no
// entry field, and no feed field.
type LookupError struct {
	Name string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("cannot find %q", e.Name)
}

// CacheError reports a failed read or write of a completion record.
type CacheError struct {
	Op  string
	Key string
	Err error
}

func (e *CacheError) Error() string {
	return fmt.Sprintf("cache %s %s: %v", e.Op, e.Key, e.Err)
}

func (e *CacheError) Unwrap() error { return e.Err }
