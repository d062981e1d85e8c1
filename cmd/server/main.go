package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/yxzhu/newsflash/app/api"
	"github.com/yxzhu/newsflash/app/cfg"
	"github.com/yxzhu/newsflash/app/classifier"
	"github.com/yxzhu/newsflash/app/cleaner"
	"github.com/yxzhu/newsflash/app/config"
	"github.com/yxzhu/newsflash/app/database"
	"github.com/yxzhu/newsflash/app/parser"
	"github.com/yxzhu/newsflash/app/pipeline"
	"github.com/yxzhu/newsflash/app/scorer"
	"github.com/yxzhu/newsflash/app/tasks"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if appCfg == nil {
		// Help was shown, exit gracefully
		return
	}

	logLevel := slog.LevelInfo
	if appCfg.Debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))

	slog.Info("Starting Newsflash server", "version", appCfg.Version)

	db, err := database.NewConnection(appCfg.DBPath)
	if err != nil {
		slog.Error("Failed to open database", "path", appCfg.DBPath, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("Database ready", "path", appCfg.DBPath, "schema_version", version, "dirty", dirty)

	sourceCache := config.NewSourceCache(appCfg.SourcesDir)
	if err := sourceCache.Run(); err != nil {
		slog.Error("Failed to load source configurations", "error", err)
		os.Exit(1)
	}
	slog.Info("Source configurations loaded", "count", sourceCache.GetSourceCount())

	strategy, err := scorer.NewStrategy(appCfg.ScoringMode, scorer.RemoteConfig{
		APIKey:  appCfg.OpenAIAPIKey,
		BaseURL: appCfg.OpenAIBaseURL,
		Model:   appCfg.OpenAIModel,
	})
	if err != nil {
		slog.Error("Failed to build scoring strategy", "mode", appCfg.ScoringMode, "error", err)
		os.Exit(1)
	}
	slog.Info("Scoring strategy selected", "strategy", strategy.Name())

	repo := database.NewSQLNewsRepository(db)
	registry := cleaner.NewRegistry()
	articleCleaner := cleaner.NewCleaner(registry)
	articleParser := parser.NewParser()
	filter := classifier.NewFilter(
		toCategories(appCfg.IncludeCategories), toCategories(appCfg.ExcludeCategories))
	fetcher := pipeline.NewHTTPFetcher(30*time.Second, appCfg.UserAgent, appCfg.FetchRate)

	var extractor *pipeline.ContentExtractor
	if appCfg.ExtractContent {
		extractor = pipeline.NewContentExtractor()
	}

	orchestrator := pipeline.NewOrchestrator(fetcher, articleParser, articleCleaner,
		filter, strategy, extractor, repo)

	slog.Info("Starting background scheduler", "workers", appCfg.WorkerCount,
		"interval", appCfg.SchedulerInterval)
	scheduler := tasks.NewScheduler(sourceCache, fetcher, orchestrator)
	scheduler.Start()
	defer scheduler.Stop()

	handler := api.NewHandler(repo, db, registry, orchestrator, strategy, sourceCache)
	server := api.NewServer(handler, appCfg.APIAccessKey)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "port", appCfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	slog.Info("Shutting down gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped")
	}

	// Scheduler is stopped via defer
	slog.Info("Newsflash server shutdown complete")
}

func toCategories(values []string) []classifier.Category {
	categories := make([]classifier.Category, 0, len(values))
	for _, value := range values {
		if classifier.Valid(value) {
			categories = append(categories, classifier.Category(value))
		} else {
			slog.Warn("Ignoring unknown category", "category", value)
		}
	}
	return categories
}
