package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mmcdole/gofeed"

	"github.com/yxzhu/newsflash/app/config"
	"github.com/yxzhu/newsflash/app/pipeline"
)

// IngestSourceTask runs the ingestion pipeline for one configured source.
// A page source is a single URL; a feed source is fetched, parsed with
// gofeed and expanded into per-entry ingestions bounded by max_items.
// The source timeout applies to the feed expansion and to each
// ingestion separately.
type IngestSourceTask struct {
	Task
	Source       *config.Source
	fetcher      pipeline.Fetcher
	orchestrator *pipeline.Orchestrator
}

func NewIngestSourceTask(source *config.Source, fetcher pipeline.Fetcher,
	orchestrator *pipeline.Orchestrator) *IngestSourceTask {
	return &IngestSourceTask{
		Task:         NewTask(TaskTypeIngestSource, source.Name),
		Source:       source,
		fetcher:      fetcher,
		orchestrator: orchestrator,
	}
}

func (t *IngestSourceTask) Execute(ctx context.Context) error {

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if !t.Source.Settings.Enabled {
		slog.Debug("Source disabled, skipping", "source", t.SourceName)
		return nil
	}

	timeout := t.Source.Settings.GetTimeout()

	var urls []string
	if t.Source.Type == config.SourceTypeFeed {
		feedCtx, cancel := context.WithTimeout(ctx, timeout)
		entries, err := t.feedEntryURLs(feedCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("failed to expand feed source: %w", err)
		}
		urls = entries
	} else {
		urls = []string{t.Source.URL}
	}

	newCount := 0
	duplicateCount := 0
	filteredCount := 0
	errorCount := 0

	for _, url := range urls {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		ingestCtx, cancel := context.WithTimeout(ctx, timeout)
		result, err := t.orchestrator.Ingest(ingestCtx, url)
		cancel()
		if err != nil {
			slog.Warn("Ingestion failed", "source", t.SourceName, "url", url, "error", err)
			errorCount++
			continue
		}

		switch {
		case result.Duplicate:
			duplicateCount++
		case result.Filtered:
			filteredCount++
		default:
			newCount++
		}
	}

	slog.Info("Task completed",
		"type", "IngestSource",
		"source", t.SourceName,
		"duration", t.GetDuration(),
		"total", len(urls),
		"new", newCount,
		"duplicates", duplicateCount,
		"filtered", filteredCount,
		"errors", errorCount)

	if errorCount == len(urls) && len(urls) > 0 {
		return fmt.Errorf("all %d ingestions failed", len(urls))
	}
	return nil
}

func (t *IngestSourceTask) feedEntryURLs(ctx context.Context) ([]string, error) {
	fetched, err := t.fetcher.Fetch(ctx, t.Source.URL)
	if err != nil {
		return nil, err
	}

	parsed, err := gofeed.NewParser().ParseString(string(fetched.Body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	maxItems := t.Source.Settings.MaxItems
	urls := make([]string, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		if maxItems > 0 && len(urls) >= maxItems {
			break
		}
		link := strings.TrimSpace(item.Link)
		if link == "" {
			continue
		}
		urls = append(urls, link)
	}
	return urls, nil
}
