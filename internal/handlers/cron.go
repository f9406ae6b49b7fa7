package handlers

import (
	"github.com/gofiber/fiber/v2"

	"merchant-portal/internal/services/monitoring"
	"merchant-portal/internal/services/report"
)

// TriggerReportSchedule computes tomorrow's report executions. Intended for
// an external cron service; errors surface as 500 so the caller's monitoring
// alerts.
func TriggerReportSchedule(c *fiber.Ctx) error {
	var scheduled int
	err := monitoring.Guard("report-schedule", func() error {
		var err error
		scheduled, err = report.ScheduleNextDay()
		return err
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Falha ao agendar relatórios",
			"error":   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"success":   true,
		"scheduled": scheduled,
	})
}

// TriggerReportExecution acknowledges immediately and hands the batch to the
// report worker, which owns the execution lifecycle and failure recording.
func TriggerReportExecution(c *fiber.Ctx) error {
	report.EnqueueProcessing()
	return c.JSON(fiber.Map{
		"success": true,
	})
}

// GetJobRuns lists recent background job runs for the admin dashboard.
func GetJobRuns(c *fiber.Ctx) error {
	runs, err := monitoring.List(c.QueryInt("limit", 50))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(runs)
}
