// Package cron owns the in-process triggers for the portal's background
// jobs. The same operations are reachable over HTTP for deployments that
// prefer an external cron service; both paths go through the monitoring
// guard, so every run leaves a terminal audit row.
package cron

import (
	"log"

	"github.com/robfig/cron/v3"

	"merchant-portal/internal/config"
	"merchant-portal/internal/services/dock"
	"merchant-portal/internal/services/monitoring"
	"merchant-portal/internal/services/notify"
	"merchant-portal/internal/services/report"
)

var cronScheduler *cron.Cron

// Init registers the configured schedules and starts the scheduler.
func Init(cfg config.CronConfig) {
	if !cfg.Enabled {
		log.Println("Cron scheduler disabled, relying on external triggers")
		return
	}

	cronScheduler = cron.New()

	register(cfg.ReportSchedule, "report-schedule", func() error {
		_, err := report.ScheduleNextDay()
		return err
	})
	// Execution is enqueued, not run here: the report worker owns the batch
	// and its monitoring row.
	if cfg.ReportExecution != "" {
		if _, err := cronScheduler.AddFunc(cfg.ReportExecution, report.EnqueueProcessing); err != nil {
			log.Printf("Failed to schedule report execution trigger: %v", err)
		}
	}
	register(cfg.DockMerchants, "dock-merchant-sync", dock.SyncMerchants)
	register(cfg.DockTransactions, "dock-transaction-sync", dock.SyncTransactions)
	register(cfg.DockSettlements, "dock-settlement-sync", dock.SyncSettlements)

	cronScheduler.Start()
	log.Println("Cron scheduler started")
}

// Stop drains the scheduler; running jobs finish first.
func Stop() {
	if cronScheduler != nil {
		<-cronScheduler.Stop().Done()
		log.Println("Cron scheduler stopped")
	}
}

func register(schedule, name string, job func() error) {
	if schedule == "" {
		return
	}

	_, err := cronScheduler.AddFunc(schedule, func() {
		if err := monitoring.Guard(name, job); err != nil {
			log.Printf("Job %s failed: %v", name, err)
			notify.JobFailed(name, err)
		}
	})
	if err != nil {
		log.Printf("Failed to schedule job %s (%s): %v", name, schedule, err)
	}
}
