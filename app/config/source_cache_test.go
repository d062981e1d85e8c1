package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSourceCacheLoadValidSource(t *testing.T) {
	tempDir := t.TempDir()

	content := `
url: "https://example.com/news"
type: "page"
language: "en"

settings:
  enabled: true
  refresh_interval: 1800
  max_items: 25
  timeout: 15
`

	err := os.WriteFile(filepath.Join(tempDir, "example.yml"), []byte(content), 0644)
	if err != nil {
		t.Fatal(err)
	}

	sourceCache := NewSourceCache(tempDir)
	err = sourceCache.Run()
	if err != nil {
		t.Fatal(err)
	}

	if sourceCache.GetSourceCount() != 1 {
		t.Errorf("Expected 1 source, got %d", sourceCache.GetSourceCount())
	}

	source, err := sourceCache.GetSource("example")
	if err != nil {
		t.Fatal(err)
	}

	if source.Name != "example" {
		t.Errorf("Expected name 'example', got '%s'", source.Name)
	}
	if source.URL != "https://example.com/news" {
		t.Errorf("Expected URL 'https://example.com/news', got '%s'", source.URL)
	}
	if source.Type != SourceTypePage {
		t.Errorf("Expected type 'page', got '%s'", source.Type)
	}
	if source.Language != "en" {
		t.Errorf("Expected language 'en', got '%s'", source.Language)
	}
	if source.Settings.RefreshInterval != 1800 {
		t.Errorf("Expected refresh interval 1800, got %d", source.Settings.RefreshInterval)
	}
	if source.Settings.MaxItems != 25 {
		t.Errorf("Expected max items 25, got %d", source.Settings.MaxItems)
	}
}

func TestSourceCacheDefaults(t *testing.T) {
	tempDir := t.TempDir()

	content := `
url: "https://example.com/rss.xml"
type: "feed"
`

	err := os.WriteFile(filepath.Join(tempDir, "minimal.yml"), []byte(content), 0644)
	if err != nil {
		t.Fatal(err)
	}

	sourceCache := NewSourceCache(tempDir)
	if err := sourceCache.Run(); err != nil {
		t.Fatal(err)
	}

	source, err := sourceCache.GetSource("minimal")
	if err != nil {
		t.Fatal(err)
	}

	if source.Settings.RefreshInterval != 3600 {
		t.Errorf("Expected default refresh interval 3600, got %d", source.Settings.RefreshInterval)
	}
	if source.Settings.MaxItems != 100 {
		t.Errorf("Expected default max items 100, got %d", source.Settings.MaxItems)
	}
	if source.Settings.Timeout != 30 {
		t.Errorf("Expected default timeout 30, got %d", source.Settings.Timeout)
	}
}

func TestSourceCacheDefaultsToPageType(t *testing.T) {
	tempDir := t.TempDir()

	content := `
url: "https://example.com/article"
`

	err := os.WriteFile(filepath.Join(tempDir, "untyped.yml"), []byte(content), 0644)
	if err != nil {
		t.Fatal(err)
	}

	sourceCache := NewSourceCache(tempDir)
	if err := sourceCache.Run(); err != nil {
		t.Fatal(err)
	}

	source, err := sourceCache.GetSource("untyped")
	if err != nil {
		t.Fatal(err)
	}
	if source.Type != SourceTypePage {
		t.Errorf("Expected default type 'page', got '%s'", source.Type)
	}
}

func TestSourceCacheRejectsInvalidSource(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "missing url",
			content: "type: \"page\"\n",
			wantErr: "URL is required",
		},
		{
			name:    "invalid type",
			content: "url: \"https://example.com\"\ntype: \"stream\"\n",
			wantErr: "invalid source type",
		},
		{
			name:    "negative interval",
			content: "url: \"https://example.com\"\nsettings:\n  refresh_interval: -5\n",
			wantErr: "must be non-negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tempDir := t.TempDir()
			err := os.WriteFile(filepath.Join(tempDir, "bad.yml"), []byte(tt.content), 0644)
			if err != nil {
				t.Fatal(err)
			}

			sourceCache := NewSourceCache(tempDir)
			err = sourceCache.Run()
			if err == nil {
				t.Fatal("Expected validation error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestSourceCacheMissingDirectory(t *testing.T) {
	sourceCache := NewSourceCache("/nonexistent/path")
	if err := sourceCache.Run(); err != nil {
		t.Errorf("Missing directory should not be an error, got %v", err)
	}
	if sourceCache.GetSourceCount() != 0 {
		t.Errorf("Expected 0 sources, got %d", sourceCache.GetSourceCount())
	}
}

func TestSourceCacheGetEnabledSources(t *testing.T) {
	tempDir := t.TempDir()

	enabled := "url: \"https://example.com/a\"\nsettings:\n  enabled: true\n"
	disabled := "url: \"https://example.com/b\"\nsettings:\n  enabled: false\n"

	if err := os.WriteFile(filepath.Join(tempDir, "on.yml"), []byte(enabled), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(tempDir, "off.yml"), []byte(disabled), 0644); err != nil {
		t.Fatal(err)
	}

	sourceCache := NewSourceCache(tempDir)
	if err := sourceCache.Run(); err != nil {
		t.Fatal(err)
	}

	sources := sourceCache.GetEnabledSources()
	if len(sources) != 1 {
		t.Fatalf("Expected 1 enabled source, got %d", len(sources))
	}
	if _, ok := sources["on"]; !ok {
		t.Error("Expected 'on' to be the enabled source")
	}
}
