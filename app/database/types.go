package database

import (
	"time"

	"github.com/yxzhu/newsflash/app/scorer"
)

// Record is a persisted news item. The ID is assigned at creation and never
// reassigned; UpdatedAt is refreshed on every partial update.
type Record struct {
	ID          string          `json:"id"`
	Title       string          `json:"title,omitempty"`
	Content     string          `json:"content,omitempty"`
	PublishTime string          `json:"publish_time,omitempty"` // canonical "2006-01-02 15:04:05"
	Author      string          `json:"author,omitempty"`
	Source      string          `json:"source"`
	URL         string          `json:"url"`
	Language    string          `json:"language,omitempty"`
	Category    string          `json:"category,omitempty"`
	Tags        []string        `json:"tags"`
	Factors     *scorer.Factors `json:"factors,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// Patch carries a partial update. A nil field leaves the stored value
// unchanged; "present but null" is not distinguished from "omitted".
type Patch struct {
	Title       *string         `json:"title"`
	Content     *string         `json:"content"`
	PublishTime *string         `json:"publish_time"`
	Author      *string         `json:"author"`
	Source      *string         `json:"source"`
	URL         *string         `json:"url"`
	Language    *string         `json:"language"`
	Category    *string         `json:"category"`
	Tags        *[]string       `json:"tags"`
	Factors     *scorer.Factors `json:"factors"`
}

// ListOptions filters and paginates record listings. Results are always
// sorted by publish time descending.
type ListOptions struct {
	Category string
	Source   string
	Keyword  string // case-insensitive substring over title and content
	Skip     int
	Limit    int
}

// Stats summarizes the stored corpus.
type Stats struct {
	Total      int            `json:"total_news"`
	Categories map[string]int `json:"categories"`
	Sources    map[string]int `json:"sources"`
	Latest     *Record        `json:"latest_news,omitempty"`
}
