package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yxzhu/newsflash/app/classifier"
	"github.com/yxzhu/newsflash/app/cleaner"
	"github.com/yxzhu/newsflash/app/config"
	"github.com/yxzhu/newsflash/app/database"
	"github.com/yxzhu/newsflash/app/pipeline"
	"github.com/yxzhu/newsflash/app/scorer"
)

const probeTimeout = 5 * time.Second

func NewHandler(repo database.NewsRepository, db *database.DB, registry *cleaner.Registry,
	orchestrator *pipeline.Orchestrator, strategy scorer.Strategy,
	sourceCache *config.SourceCache) *Handler {
	return &Handler{
		repo:         repo,
		db:           db,
		registry:     registry,
		orchestrator: orchestrator,
		strategy:     strategy,
		sourceCache:  sourceCache,
	}
}

func (h *Handler) Ingest(c *gin.Context) {
	var req ingestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "url is required"})
		return
	}

	result, err := h.orchestrator.Ingest(c.Request.Context(), req.URL)
	if err != nil {
		slog.Error("Ingestion failed", "url", req.URL, "error", err)
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *Handler) Rescore(c *gin.Context) {
	var req rescoreRequest
	_ = c.ShouldBindJSON(&req) // body is optional
	if req.Limit <= 0 {
		req.Limit = 20
	}

	result, err := h.orchestrator.RescoreBatch(c.Request.Context(), req.Limit)
	if err != nil {
		slog.Error("Batch rescore failed", "error", err)
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *Handler) GetTopNews(c *gin.Context) {
	minScore, err := strconv.ParseFloat(c.DefaultQuery("min_score", "0"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid min_score"})
		return
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
		return
	}

	records, err := h.orchestrator.TopN(minScore, limit)
	if err != nil {
		slog.Error("Database error", "operation", "top_news", "error", err)
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"total": len(records), "items": records})
}

func (h *Handler) ListNews(c *gin.Context) {
	query := pipeline.ListQuery{
		Search:   c.Query("search"),
		Category: c.Query("category"),
		Source:   c.Query("source"),
	}
	query.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	query.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))

	records, err := h.repo.List(query.Options())
	if err != nil {
		slog.Error("Database error", "operation", "list_news", "error", err)
		h.respondError(c, err)
		return
	}

	if records == nil {
		records = []database.Record{}
	}
	c.JSON(http.StatusOK, gin.H{"total": len(records), "items": records})
}

func (h *Handler) GetNews(c *gin.Context) {
	record, err := h.repo.Get(c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

func (h *Handler) CreateNews(c *gin.Context) {
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	category := req.Category
	if category == "" {
		category = string(classifier.Classify(req.Title))
	}

	record, err := h.repo.Create(database.Record{
		Title:       req.Title,
		Content:     req.Content,
		PublishTime: req.PublishTime,
		Author:      req.Author,
		Source:      req.Source,
		URL:         req.URL,
		Language:    req.Language,
		Category:    category,
		Tags:        req.Tags,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, record)
}

func (h *Handler) UpdateNews(c *gin.Context) {
	var patch database.Patch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	record, err := h.repo.Update(c.Param("id"), patch)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, record)
}

func (h *Handler) DeleteNews(c *gin.Context) {
	if err := h.repo.Delete(c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

func (h *Handler) Classify(c *gin.Context) {
	var req classifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title is required"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"title":    req.Title,
		"category": classifier.Classify(req.Title),
	})
}

func (h *Handler) Score(c *gin.Context) {
	var req scoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title is required"})
		return
	}

	factors, err := h.strategy.Score(c.Request.Context(), req.Title, req.Content, req.Language)
	if err != nil {
		slog.Error("Scoring failed", "strategy", h.strategy.Name(), "error", err)
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, factors)
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := gin.H{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
	}
	status := "healthy"

	probeCtx, cancel := context.WithTimeout(c.Request.Context(), probeTimeout)
	defer cancel()

	if err := h.db.PingContext(probeCtx); err != nil {
		health["database"] = "unreachable"
		status = "degraded"
	} else {
		health["database"] = "ok"
	}

	health["scoring_strategy"] = h.strategy.Name()
	if prober, ok := h.strategy.(AvailabilityProber); ok {
		if prober.IsAvailable(probeCtx) {
			health["rating_engine"] = "ok"
		} else {
			health["rating_engine"] = "unreachable"
			status = "degraded"
		}
	}

	health["loaded_sources"] = h.sourceCache.GetSourceCount()
	health["status"] = status

	if status == "healthy" {
		c.JSON(http.StatusOK, health)
	} else {
		c.JSON(http.StatusServiceUnavailable, health)
	}
}

func (h *Handler) GetStats(c *gin.Context) {
	stats, err := h.repo.GetStats()
	if err != nil {
		slog.Error("Database error", "operation", "get_stats", "error", err)
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"store": stats,
		"dedup": gin.H{
			"fingerprints": h.registry.Size(),
			"unique_urls":  h.registry.UniqueURLs(),
		},
	})
}

// respondError maps the error taxonomy to HTTP statuses: validation 400,
// unknown id 404, retryable unavailability 503, upstream rejection passes
// its status through, anything else 500.
func (h *Handler) respondError(c *gin.Context, err error) {
	var validation *database.ValidationError
	if errors.As(err, &validation) {
		c.JSON(http.StatusBadRequest, gin.H{"error": validation.Error(), "field": validation.Field})
		return
	}
	if errors.Is(err, database.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "news not found"})
		return
	}
	var rejected *pipeline.RejectedError
	if errors.As(err, &rejected) {
		c.JSON(rejected.Status, gin.H{"error": rejected.Error()})
		return
	}
	if pipeline.IsRetryable(err) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error(), "retryable": true})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
