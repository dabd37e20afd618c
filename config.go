package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

const (
	defaultFeedsFile = "feeds.toml"
	cacheDirName     = ".podtag-cache"
	dataDirEnv       = "PODTAG_DATA"
)

// Settings holds process-wide configuration
type Settings struct {
	DataDir string
	Workers int
}

// FeedConfig describes one configured feed
type FeedConfig struct {
	URL         string `toml:"url" yaml:"url"`
	Provider    string `toml:"provider" yaml:"provider"`
	FilePattern string `toml:"filepattern" yaml:"filepattern"`
}

// feedsFile is the on-disk shape of the feeds document. TOML uses
// [[feed]] tables, YAML a "feed" list.
type feedsFile struct {
	Feeds []FeedConfig `toml:"feed" yaml:"feed"`
}

// resolveDataDir picks the data directory root: the flag wins, then the
// PODTAG_DATA environment variable, then the current working directory.
func resolveDataDir(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if dir := os.Getenv(dataDirEnv); dir != "" {
		return dir, nil
	}
	return os.Getwd()
}

// initDirs creates the data and cache directories. Failure here is fatal to
// the run.
func initDirs(settings Settings) error {
	if err := os.MkdirAll(settings.DataDir, 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	if err := os.MkdirAll(cacheDir(settings), 0755); err != nil {
		return fmt.Errorf("creating cache directory: %w", err)
	}
	return nil
}

func cacheDir(settings Settings) string {
	return filepath.Join(settings.DataDir, cacheDirName)
}

// loadFeeds reads and validates the feeds file. The format is chosen by
// extension: .yaml/.yml parses as YAML, anything else as TOML.
func loadFeeds(path string) ([]FeedConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ConfigError{Detail: "reading feeds file " + path, Err: err}
	}

	var doc feedsFile
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &doc)
	default:
		err = toml.Unmarshal(data, &doc)
	}
	if err != nil {
		return nil, &ConfigError{Detail: "parsing feeds file " + path, Err: err}
	}

	for i, fc := range doc.Feeds {
		if fc.URL == "" {
			return nil, &ConfigError{Detail: fmt.Sprintf("feed %d: missing url", i+1)}
		}
		if fc.FilePattern == "" {
			return nil, &ConfigError{Detail: fmt.Sprintf("feed %d: missing filepattern", i+1)}
		}
		if !knownProvider(fc.Provider) {
			return nil, &ConfigError{Detail: fmt.Sprintf("feed %d: unknown provider %q", i+1, fc.Provider)}
		}
	}

	return doc.Feeds, nil
}
