package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeFeedsFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFeedsTOML(t *testing.T) {
	path := writeFeedsFile(t, "feeds.toml", `
[[feed]]
url = "https://example.com/feed.xml"
provider = "nightvale"
filepattern = "{album}/{episode_number} - {episode_title}"

[[feed]]
url = "https://example.com/other.xml"
provider = "rss"
filepattern = "{episode_title}"
`)

	feeds, err := loadFeeds(path)
	if err != nil {
		t.Fatalf("loadFeeds() error = %v", err)
	}
	if len(feeds) != 2 {
		t.Fatalf("loadFeeds() returned %d feeds, want 2", len(feeds))
	}
	if feeds[0].Provider != "nightvale" {
		t.Errorf("feeds[0].Provider = %q", feeds[0].Provider)
	}
	if feeds[1].FilePattern != "{episode_title}" {
		t.Errorf("feeds[1].FilePattern = %q", feeds[1].FilePattern)
	}
}

func TestLoadFeedsYAML(t *testing.T) {
	path := writeFeedsFile(t, "feeds.yaml", `
feed:
  - url: https://example.com/feed.xml
    provider: rss
    filepattern: "{episode_title}"
`)

	feeds, err := loadFeeds(path)
	if err != nil {
		t.Fatalf("loadFeeds() error = %v", err)
	}
	if len(feeds) != 1 || feeds[0].URL != "https://example.com/feed.xml" {
		t.Errorf("loadFeeds() = %+v", feeds)
	}
}

func TestLoadFeedsValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"missing url", "[[feed]]\nprovider = \"rss\"\nfilepattern = \"{episode_title}\"\n"},
		{"missing filepattern", "[[feed]]\nurl = \"https://x\"\nprovider = \"rss\"\n"},
		{"unknown provider", "[[feed]]\nurl = \"https://x\"\nprovider = \"gopher\"\nfilepattern = \"{episode_title}\"\n"},
		{"bad toml", "[[feed]\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFeedsFile(t, "feeds.toml", tt.content)
			_, err := loadFeeds(path)
			var ce *ConfigError
			if !errors.As(err, &ce) {
				t.Fatalf("loadFeeds() error = %v, want ConfigError", err)
			}
		})
	}
}

func TestLoadFeedsMissingFile(t *testing.T) {
	_, err := loadFeeds(filepath.Join(t.TempDir(), "absent.toml"))
	var ce *ConfigError
	if !errors.As(err, &ce) {
		t.Fatalf("loadFeeds() error = %v, want ConfigError", err)
	}
}

func TestResolveDataDir(t *testing.T) {
	t.Run("flag wins", func(t *testing.T) {
		t.Setenv(dataDirEnv, "/env/dir")
		dir, err := resolveDataDir("/flag/dir")
		if err != nil {
			t.Fatal(err)
		}
		if dir != "/flag/dir" {
			t.Errorf("resolveDataDir() = %q, want flag value", dir)
		}
	})
	t.Run("env fallback", func(t *testing.T) {
		t.Setenv(dataDirEnv, "/env/dir")
		dir, err := resolveDataDir("")
		if err != nil {
			t.Fatal(err)
		}
		if dir != "/env/dir" {
			t.Errorf("resolveDataDir() = %q, want env value", dir)
		}
	})
	t.Run("cwd default", func(t *testing.T) {
		t.Setenv(dataDirEnv, "")
		cwd, _ := os.Getwd()
		dir, err := resolveDataDir("")
		if err != nil {
			t.Fatal(err)
		}
		if dir != cwd {
			t.Errorf("resolveDataDir() = %q, want %q", dir, cwd)
		}
	})
}
