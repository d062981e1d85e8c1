package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/yxzhu/newsflash/app/cfg"
	"github.com/yxzhu/newsflash/app/config"
	"github.com/yxzhu/newsflash/app/pipeline"
)

var _ TaskSchedulerInterface = (*Scheduler)(nil)

// Scheduler runs a worker pool fed by a ticker: due sources get an ingest
// task, and a rescore task runs on its own interval. Due times are tracked
// in memory per source.
type Scheduler struct {
	sourceCache     *config.SourceCache
	fetcher         pipeline.Fetcher
	orchestrator    *pipeline.Orchestrator
	interval        time.Duration
	workerCount     int
	rescoreInterval time.Duration
	rescoreBatch    int
	ctx             context.Context
	cancel          context.CancelFunc
	wg              sync.WaitGroup
	taskQueue       chan TaskInterface

	mu          sync.Mutex
	nextRun     map[string]time.Time
	nextRescore time.Time
}

func NewScheduler(sourceCache *config.SourceCache, fetcher pipeline.Fetcher,
	orchestrator *pipeline.Orchestrator) TaskSchedulerInterface {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := cfg.Get()

	return &Scheduler{
		sourceCache:     sourceCache,
		fetcher:         fetcher,
		orchestrator:    orchestrator,
		interval:        time.Duration(cfg.SchedulerInterval) * time.Second,
		workerCount:     cfg.WorkerCount,
		rescoreInterval: time.Duration(cfg.RescoreInterval) * time.Second,
		rescoreBatch:    cfg.RescoreBatchSize,
		ctx:             ctx,
		cancel:          cancel,
		taskQueue:       make(chan TaskInterface, 300),
		nextRun:         make(map[string]time.Time),
	}
}

func (s *Scheduler) Start() {
	for i := 0; i < s.workerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.enqueueTasks()

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.enqueueTasks()
			}
		}
	}()

}

func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
	close(s.taskQueue)
}

func (s *Scheduler) EnqueueTask(task TaskInterface) error {
	select {
	case s.taskQueue <- task:
		return nil
	case <-s.ctx.Done():
		return s.ctx.Err()
	default:
		return fmt.Errorf("task queue is full")
	}
}

func (s *Scheduler) enqueueTasks() {
	sources := s.sourceCache.GetEnabledSources()
	if len(sources) == 0 {
		slog.Debug("No enabled source configurations found")
	}

	now := time.Now().UTC()

	for _, source := range sources {
		s.mu.Lock()
		next, seen := s.nextRun[source.Name]
		due := !seen || !next.After(now)
		if due {
			s.nextRun[source.Name] = now.Add(source.Settings.GetRefreshInterval())
		}
		s.mu.Unlock()

		if !due {
			slog.Debug("Source not due for refresh yet", "source", source.Name, "next_run", next)
			continue
		}

		task := NewIngestSourceTask(source, s.fetcher, s.orchestrator)
		if err := s.EnqueueTask(task); err != nil {
			slog.Warn("Failed to enqueue IngestSourceTask", "source", source.Name, "error", err)
		}
	}

	if s.rescoreInterval <= 0 {
		return
	}

	s.mu.Lock()
	rescoreDue := s.nextRescore.IsZero() || !s.nextRescore.After(now)
	if rescoreDue {
		s.nextRescore = now.Add(s.rescoreInterval)
	}
	s.mu.Unlock()

	if rescoreDue {
		if err := s.EnqueueTask(NewRescoreTask(s.orchestrator, s.rescoreBatch)); err != nil {
			slog.Warn("Failed to enqueue RescoreTask", "error", err)
		}
	}
}

func (s *Scheduler) worker(id int) {
	defer s.wg.Done()

	for {
		select {
		case task, ok := <-s.taskQueue:
			if !ok {
				return
			}
			s.executeTask(id, task)

		case <-s.ctx.Done():
			return
		}
	}
}

func (s *Scheduler) executeTask(workerID int, task TaskInterface) {
	task.Start()

	taskCtx, cancel := context.WithTimeout(s.ctx, 5*time.Minute)
	defer cancel()

	err := task.Execute(taskCtx)

	if err != nil {
		slog.Error("Worker task execution failed", "worker_id", workerID, "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", err)

		if task.CanRetry() {
			task.IncrementRetryCount()
			retryDelay := time.Duration(1<<uint(task.GetRetryCount()-1)) * time.Second
			if retryDelay > 30*time.Second {
				retryDelay = 30 * time.Second
			}

			slog.Warn("Task retry scheduled", "type", string(task.GetType()), "source", task.GetSourceName(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "delay", retryDelay.String())

			s.wg.Add(1)
			go func() {
				defer s.wg.Done()

				select {
				case <-s.ctx.Done():
					slog.Debug("Scheduler stopped, skipping task retry", "type", string(task.GetType()), "id", task.GetID())
					return
				case <-time.After(retryDelay):
				}

				if retryErr := s.EnqueueTask(task); retryErr != nil {
					slog.Error("Failed to re-enqueue task for retry", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", retryErr)
				}
			}()
		} else {
			slog.Error("Task failed after maximum retries", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "last_error", err)
		}
	}
}
