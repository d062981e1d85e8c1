package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/yxzhu/newsflash/app/pipeline"
)

// RescoreTask scores a batch of stored records that have no significance
// factors yet.
type RescoreTask struct {
	Task
	orchestrator *pipeline.Orchestrator
	batchSize    int
}

func NewRescoreTask(orchestrator *pipeline.Orchestrator, batchSize int) *RescoreTask {
	return &RescoreTask{
		Task:         NewTask(TaskTypeRescore, ""),
		orchestrator: orchestrator,
		batchSize:    batchSize,
	}
}

func (t *RescoreTask) Execute(ctx context.Context) error {

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	result, err := t.orchestrator.RescoreBatch(ctx, t.batchSize)
	if err != nil {
		return fmt.Errorf("failed to rescore batch: %w", err)
	}

	if len(result.Items) == 0 {
		slog.Debug("No records need rescoring")
		return nil
	}

	slog.Info("Task completed",
		"type", "Rescore",
		"duration", t.GetDuration(),
		"total", len(result.Items),
		"rescored", result.Rescored,
		"failed", len(result.Items)-result.Rescored)

	return nil
}
