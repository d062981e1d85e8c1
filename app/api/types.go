package api

import (
	"context"

	"github.com/yxzhu/newsflash/app/cleaner"
	"github.com/yxzhu/newsflash/app/config"
	"github.com/yxzhu/newsflash/app/database"
	"github.com/yxzhu/newsflash/app/pipeline"
	"github.com/yxzhu/newsflash/app/scorer"
)

// AvailabilityProber is implemented by scoring strategies that can probe
// their backing engine, such as the remote one.
type AvailabilityProber interface {
	IsAvailable(ctx context.Context) bool
}

type Handler struct {
	repo         database.NewsRepository
	db           *database.DB
	registry     *cleaner.Registry
	orchestrator *pipeline.Orchestrator
	strategy     scorer.Strategy
	sourceCache  *config.SourceCache
}

type ingestRequest struct {
	URL string `json:"url" binding:"required"`
}

type rescoreRequest struct {
	Limit int `json:"limit"`
}

type classifyRequest struct {
	Title string `json:"title" binding:"required"`
}

type scoreRequest struct {
	Title    string `json:"title" binding:"required"`
	Content  string `json:"content"`
	Language string `json:"language"`
}

type createRequest struct {
	Title       string   `json:"title"`
	Content     string   `json:"content"`
	PublishTime string   `json:"publish_time"`
	Author      string   `json:"author"`
	Source      string   `json:"source"`
	URL         string   `json:"url"`
	Language    string   `json:"language"`
	Category    string   `json:"category"`
	Tags        []string `json:"tags"`
}
