package tasks

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

type alwaysFailingTask struct {
	Task
	executions atomic.Int32
}

func (t *alwaysFailingTask) Execute(_ context.Context) error {
	t.executions.Add(1)
	return errors.New("simulated failure")
}

func newTestScheduler() *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		interval:  time.Minute,
		ctx:       ctx,
		cancel:    cancel,
		taskQueue: make(chan TaskInterface, 10),
		nextRun:   make(map[string]time.Time),
	}
}

func TestSchedulerStopDuringRetryWindow(t *testing.T) {
	s := newTestScheduler()
	task := &alwaysFailingTask{Task: NewTask(TaskTypeIngestSource, "flaky")}

	s.executeTask(0, task)
	if task.executions.Load() != 1 {
		t.Fatalf("executions = %d, want 1", task.executions.Load())
	}

	// Stop while the 1s retry backoff is pending. The pending retry must be
	// abandoned before the queue is closed.
	s.Stop()

	time.Sleep(1200 * time.Millisecond)

	select {
	case pending, ok := <-s.taskQueue:
		if ok {
			t.Errorf("Retry enqueued after Stop: %v", pending.GetID())
		}
	default:
		t.Error("Expected the task queue to be closed")
	}
}

func TestSchedulerRetriesFailedTask(t *testing.T) {
	s := newTestScheduler()
	task := &alwaysFailingTask{Task: NewTask(TaskTypeIngestSource, "flaky")}

	s.executeTask(0, task)

	select {
	case retried := <-s.taskQueue:
		if retried.GetRetryCount() != 1 {
			t.Errorf("retry count = %d, want 1", retried.GetRetryCount())
		}
	case <-time.After(3 * time.Second):
		t.Fatal("Expected the failed task to be re-enqueued")
	}

	s.Stop()
}
