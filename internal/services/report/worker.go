package report

import (
	"log"

	"merchant-portal/internal/services/monitoring"
	"merchant-portal/internal/services/notify"
)

// queue carries wake-up signals for the execution worker. Capacity 1 is
// enough: a signal arriving while a batch runs coalesces into one more pass.
var queue = make(chan struct{}, 1)

// StartWorker launches the single goroutine that owns report execution.
// The HTTP trigger only enqueues and acknowledges; every failure ends up on
// an execution row or a monitored job run, never in a dropped goroutine.
func StartWorker() {
	go func() {
		for range queue {
			err := monitoring.Guard("report-execution", ProcessDueExecutions)
			if err != nil {
				log.Printf("Report execution batch failed: %v", err)
				notify.JobFailed("report-execution", err)
			}
		}
	}()
}

// EnqueueProcessing signals the worker to scan for due executions. It never
// blocks; a pending signal already covers the caller's request.
func EnqueueProcessing() {
	select {
	case queue <- struct{}{}:
	default:
	}
}
