package config

import "time"

const (
	SourceTypePage = "page"
	SourceTypeFeed = "feed"
)

// Source describes one configured news origin. A page source is ingested as
// a single URL; a feed source is expanded into per-entry ingestions.
type Source struct {
	Name     string         // Derived from filename (without .yml extension)
	URL      string         `yaml:"url"`
	Type     string         `yaml:"type"`
	Language string         `yaml:"language"`
	Settings SourceSettings `yaml:"settings"`
}

type SourceSettings struct {
	Enabled         bool `yaml:"enabled"`
	RefreshInterval int  `yaml:"refresh_interval"` // seconds
	MaxItems        int  `yaml:"max_items"`
	Timeout         int  `yaml:"timeout"` // seconds
}

func (s *SourceSettings) GetRefreshInterval() time.Duration {
	return time.Duration(s.RefreshInterval) * time.Second
}

func (s *SourceSettings) GetTimeout() time.Duration {
	return time.Duration(s.Timeout) * time.Second
}
