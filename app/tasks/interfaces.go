package tasks

// TaskSchedulerInterface defines the interface for task scheduling operations.
// Used by the main application to manage background ingestion and rescoring.
// Example usage:
//
//	scheduler := NewScheduler(sourceCache, fetcher, orchestrator)
//	scheduler.Start()
//	defer scheduler.Stop()
//	scheduler.EnqueueTask(NewIngestSourceTask(...))
type TaskSchedulerInterface interface {
	Start()
	Stop()
	EnqueueTask(task TaskInterface) error
}
