package cfg

import (
	"cmp"
	"fmt"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Database configuration
	DBPath string `long:"db-path" env:"DB_PATH" default:"./newsflash.db" description:"Path to the SQLite database file"`

	// Application configuration
	SourcesDir        string `long:"sources-dir" env:"SOURCES_DIR" default:"./sources" description:"Directory containing source configuration files"`
	Port              string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	WorkerCount       int    `long:"worker-count" env:"WORKER_COUNT" default:"5" description:"Number of background workers for ingestion"`
	SchedulerInterval int    `long:"scheduler-interval" env:"SCHEDULER_INTERVAL" default:"30" description:"Scheduler interval in seconds"`
	APIAccessKey      string `long:"api-key" env:"API_ACCESS_KEY" description:"API access key for authentication (optional)"`

	// Pipeline configuration
	ScoringMode       string   `long:"scoring-mode" env:"SCORING_MODE" default:"auto" choice:"auto" choice:"remote" choice:"local" description:"Scoring strategy selection"`
	OpenAIAPIKey      string   `long:"openai-api-key" env:"OPENAI_API_KEY" description:"API key for the remote rating engine (optional)"`
	OpenAIBaseURL     string   `long:"openai-base-url" env:"OPENAI_BASE_URL" description:"Base URL override for the remote rating engine"`
	OpenAIModel       string   `long:"openai-model" env:"OPENAI_MODEL" description:"Model used by the remote rating engine"`
	RescoreInterval   int      `long:"rescore-interval" env:"RESCORE_INTERVAL" default:"600" description:"Rescore task interval in seconds (0 disables)"`
	RescoreBatchSize  int      `long:"rescore-batch" env:"RESCORE_BATCH" default:"20" description:"Maximum records per rescore batch"`
	FetchRate         float64  `long:"fetch-rate" env:"FETCH_RATE" default:"1" description:"Maximum fetch requests per second per host"`
	ExtractContent    bool     `long:"extract-content" env:"EXTRACT_CONTENT" description:"Enable readability fallback when no body selector matches"`
	IncludeCategories []string `long:"include-category" env:"INCLUDE_CATEGORIES" env-delim:"," description:"Only keep these categories (repeatable)"`
	ExcludeCategories []string `long:"exclude-category" env:"EXCLUDE_CATEGORIES" env-delim:"," description:"Drop these categories (repeatable)"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"Newsflash/1.0" description:"User agent string for HTTP requests"`
	Timezone  string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for timestamps (e.g., UTC, America/New_York)"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		DBPath:            raw.DBPath,
		SourcesDir:        raw.SourcesDir,
		Port:              raw.Port,
		WorkerCount:       raw.WorkerCount,
		SchedulerInterval: raw.SchedulerInterval,
		APIAccessKey:      raw.APIAccessKey,
		ScoringMode:       raw.ScoringMode,
		OpenAIAPIKey:      raw.OpenAIAPIKey,
		OpenAIBaseURL:     raw.OpenAIBaseURL,
		OpenAIModel:       raw.OpenAIModel,
		RescoreInterval:   raw.RescoreInterval,
		RescoreBatchSize:  raw.RescoreBatchSize,
		FetchRate:         raw.FetchRate,
		ExtractContent:    raw.ExtractContent,
		IncludeCategories: raw.IncludeCategories,
		ExcludeCategories: raw.ExcludeCategories,
		UserAgent:         raw.UserAgent,
		Timezone:          raw.Timezone,
		Debug:             raw.Debug,
		Version:           GetVersion(),
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		if loc, err := time.LoadLocation(timezone); err != nil {
			return err
		} else {
			time.Local = loc
			fmt.Printf("Timezone configured: %s\n", timezone)
		}
	}
	return nil
}
