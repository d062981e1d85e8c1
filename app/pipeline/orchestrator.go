package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/yxzhu/newsflash/app/classifier"
	"github.com/yxzhu/newsflash/app/cleaner"
	"github.com/yxzhu/newsflash/app/database"
	"github.com/yxzhu/newsflash/app/parser"
	"github.com/yxzhu/newsflash/app/scorer"
)

const (
	StepFetch    = "fetch"
	StepParse    = "parse"
	StepClean    = "clean"
	StepClassify = "classify"
	StepScore    = "score"
	StepSave     = "save"
)

// Step records the outcome of one pipeline stage.
type Step struct {
	Name   string `json:"name"`
	Status string `json:"status"`
	Detail string `json:"detail,omitempty"`
}

// IngestResult is the outcome of a single orchestrated ingestion. Success
// covers the upstream stages only: a persistence failure downgrades to
// Saved=false without flipping Success.
type IngestResult struct {
	Success     bool                `json:"success"`
	URL         string              `json:"url"`
	Duplicate   bool                `json:"is_duplicate"`
	DuplicateOf string              `json:"duplicate_of,omitempty"`
	Filtered    bool                `json:"is_filtered"`
	Category    classifier.Category `json:"category,omitempty"`
	Saved       bool                `json:"saved"`
	SavedItem   *database.Record    `json:"saved_item,omitempty"`
	Data        *parser.Article     `json:"data,omitempty"`
	Steps       []Step              `json:"steps"`
}

// RescoreItem is the per-record outcome of a batch rescore. Failures are
// captured per item and never abort the batch.
type RescoreItem struct {
	ID    string  `json:"id"`
	Score float64 `json:"score,omitempty"`
	Error string  `json:"error,omitempty"`
}

type RescoreResult struct {
	Rescored int           `json:"rescored"`
	Items    []RescoreItem `json:"items"`
}

// Orchestrator sequences fetch, parse, clean, classify, score and persist
// for one source URL at a time. Stage calls are bounded by stageTimeout.
type Orchestrator struct {
	fetcher      Fetcher
	parser       *parser.Parser
	cleaner      *cleaner.Cleaner
	filter       *classifier.Filter
	strategy     scorer.Strategy
	extractor    *ContentExtractor
	repo         database.NewsRepository
	stageTimeout time.Duration
}

func NewOrchestrator(fetcher Fetcher, articleParser *parser.Parser, articleCleaner *cleaner.Cleaner,
	filter *classifier.Filter, strategy scorer.Strategy, extractor *ContentExtractor,
	repo database.NewsRepository) *Orchestrator {
	return &Orchestrator{
		fetcher:      fetcher,
		parser:       articleParser,
		cleaner:      articleCleaner,
		filter:       filter,
		strategy:     strategy,
		extractor:    extractor,
		repo:         repo,
		stageTimeout: 30 * time.Second,
	}
}

// Ingest runs the full pipeline for one URL. Fetch failures abort; a
// duplicate or filtered-out article short-circuits without saving; scoring
// and persistence failures are downgraded and reported in the steps.
func (o *Orchestrator) Ingest(ctx context.Context, rawURL string) (*IngestResult, error) {
	result := &IngestResult{URL: rawURL}

	fetchCtx, cancel := context.WithTimeout(ctx, o.stageTimeout)
	fetched, err := o.fetcher.Fetch(fetchCtx, rawURL)
	cancel()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", rawURL, err)
	}
	result.Steps = append(result.Steps, Step{Name: StepFetch, Status: "ok"})

	article := o.parser.Run(fetched.Body, fetched.Format, fetched.FinalURL)
	if article.Content == "" && o.extractor != nil && fetched.Format == parser.FormatHTML {
		if content, err := o.extractor.Run(fetched.Body); err == nil {
			article.Content = content
		}
	}
	result.Steps = append(result.Steps, Step{Name: StepParse, Status: "ok"})

	cleaned := o.cleaner.Run(article)
	if cleaned.IsDuplicate {
		result.Success = true
		result.Duplicate = true
		result.DuplicateOf = cleaned.DuplicateOf
		result.Steps = append(result.Steps, Step{Name: StepClean, Status: "ok",
			Detail: "duplicate of " + cleaned.DuplicateOf})
		return result, nil
	}
	result.Steps = append(result.Steps, Step{Name: StepClean, Status: "ok"})

	item := cleaned.CleanedItem
	result.Data = item
	result.Category = classifier.Classify(item.Title)
	if !o.filter.Allows(result.Category) {
		result.Success = true
		result.Filtered = true
		result.Steps = append(result.Steps, Step{Name: StepClassify, Status: "ok",
			Detail: fmt.Sprintf("category %s filtered out", result.Category)})
		return result, nil
	}
	result.Steps = append(result.Steps, Step{Name: StepClassify, Status: "ok",
		Detail: string(result.Category)})

	var factors *scorer.Factors
	if o.strategy != nil {
		scoreCtx, cancel := context.WithTimeout(ctx, o.stageTimeout)
		scored, err := o.strategy.Score(scoreCtx, item.Title, item.Content, item.Language)
		cancel()
		if err != nil {
			slog.Warn("Scoring failed, record proceeds unscored",
				"url", rawURL, "strategy", o.strategy.Name(), "error", err)
			result.Steps = append(result.Steps, Step{Name: StepScore, Status: "skipped",
				Detail: err.Error()})
		} else {
			factors = &scored
			result.Steps = append(result.Steps, Step{Name: StepScore, Status: "ok",
				Detail: fmt.Sprintf("score %.3f", scored.Score)})
		}
	} else {
		result.Steps = append(result.Steps, Step{Name: StepScore, Status: "skipped",
			Detail: "no scoring strategy configured"})
	}

	result.Success = true

	saved, err := o.repo.Create(database.Record{
		Title:       item.Title,
		Content:     item.Content,
		PublishTime: item.PublishTime,
		Author:      item.Author,
		Source:      item.Source,
		URL:         item.URL,
		Language:    item.Language,
		Category:    string(result.Category),
		Factors:     factors,
	})
	if err != nil {
		slog.Error("Failed to persist record", "url", rawURL, "error", err)
		result.Steps = append(result.Steps, Step{Name: StepSave, Status: "failed",
			Detail: err.Error()})
		return result, nil
	}

	result.Saved = true
	result.SavedItem = saved
	result.Steps = append(result.Steps, Step{Name: StepSave, Status: "ok"})
	return result, nil
}

// RescoreBatch scores up to limit unscored records. A failing record is
// reported in its item entry and the batch continues.
func (o *Orchestrator) RescoreBatch(ctx context.Context, limit int) (*RescoreResult, error) {
	if o.strategy == nil {
		return nil, fmt.Errorf("no scoring strategy configured")
	}

	records, err := o.repo.ListUnscored(limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list unscored records: %w", err)
	}

	result := &RescoreResult{Items: make([]RescoreItem, 0, len(records))}
	for _, record := range records {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		scoreCtx, cancel := context.WithTimeout(ctx, o.stageTimeout)
		factors, err := o.strategy.Score(scoreCtx, record.Title, record.Content, record.Language)
		cancel()
		if err != nil {
			slog.Warn("Rescore failed for record", "id", record.ID, "error", err)
			result.Items = append(result.Items, RescoreItem{ID: record.ID, Error: err.Error()})
			continue
		}

		if _, err := o.repo.Update(record.ID, database.Patch{Factors: &factors}); err != nil {
			slog.Error("Failed to store rescored factors", "id", record.ID, "error", err)
			result.Items = append(result.Items, RescoreItem{ID: record.ID, Error: err.Error()})
			continue
		}

		result.Rescored++
		result.Items = append(result.Items, RescoreItem{ID: record.ID, Score: factors.Score})
	}

	return result, nil
}

// TopN returns stored records with a score of at least minScore, best first.
func (o *Orchestrator) TopN(minScore float64, limit int) ([]database.Record, error) {
	return o.repo.TopScored(minScore, limit)
}
