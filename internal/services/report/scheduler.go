package report

import (
	"fmt"
	"log"
	"time"

	"merchant-portal/internal/database"
	"merchant-portal/internal/models"
	"merchant-portal/internal/services/period"
	"merchant-portal/internal/services/recurrence"
)

const defaultShippingTime = "07:00"

// ScheduleNextDay enumerates active definitions, decides which fire tomorrow
// and persists one pending execution per firing definition. The caller
// guarantees at most one invocation per calendar day; a same-day existence
// check additionally keeps the in-process trigger and an external cron from
// double-scheduling.
func ScheduleNextDay() (int, error) {
	var defs []models.ReportDefinition
	if err := database.DB.Where("active = ?", true).Find(&defs).Error; err != nil {
		return 0, fmt.Errorf("failed to load report definitions: %w", err)
	}

	tomorrow := nowFunc().In(period.Location).AddDate(0, 0, 1)
	scheduled := 0

	for i := range defs {
		def := &defs[i]
		if !recurrence.ShouldFire(def, tomorrow) {
			continue
		}

		fireAt, err := fireTimestamp(tomorrow, def.ShippingTime)
		if err != nil {
			log.Printf("WARNING: report definition %d has invalid shipping time %q, skipping", def.ID, def.ShippingTime)
			continue
		}

		dayStart := time.Date(tomorrow.Year(), tomorrow.Month(), tomorrow.Day(), 0, 0, 0, 0, period.Location)
		var existing int64
		database.DB.Model(&models.ScheduledExecution{}).
			Where("definition_id = ? AND fire_at >= ? AND fire_at < ?", def.ID, dayStart, dayStart.AddDate(0, 0, 1)).
			Count(&existing)
		if existing > 0 {
			continue
		}

		exec := models.ScheduledExecution{
			DefinitionID: def.ID,
			FireAt:       fireAt,
			Status:       models.ExecutionPending,
		}
		if err := database.DB.Create(&exec).Error; err != nil {
			return scheduled, fmt.Errorf("failed to persist execution for definition %d: %w", def.ID, err)
		}
		scheduled++
	}

	log.Printf("Scheduled %d report executions for %s", scheduled, tomorrow.Format("2006-01-02"))
	return scheduled, nil
}

// ProcessDueExecutions runs every pending execution whose fire time has
// passed, sequentially to keep load on storage and the mail relay bounded.
// A single execution's failure is recorded on its own row and never aborts
// the rest of the batch.
func ProcessDueExecutions() error {
	var due []models.ScheduledExecution
	err := database.DB.
		Where("status = ? AND fire_at <= ?", models.ExecutionPending, nowFunc()).
		Order("fire_at asc").
		Find(&due).Error
	if err != nil {
		return fmt.Errorf("failed to load due executions: %w", err)
	}

	for i := range due {
		runExecution(&due[i])
	}

	if len(due) > 0 {
		log.Printf("Processed %d due report executions", len(due))
	}
	return nil
}

func runExecution(exec *models.ScheduledExecution) {
	started := time.Now()
	exec.Status = models.ExecutionRunning
	exec.StartedAt = &started
	if err := database.DB.Save(exec).Error; err != nil {
		log.Printf("WARNING: failed to mark execution %d running: %v", exec.ID, err)
		return
	}

	key, err := safeExecute(exec.DefinitionID)

	finished := time.Now()
	exec.FinishedAt = &finished
	if err != nil {
		exec.Status = models.ExecutionError
		exec.ErrorMessage = err.Error()
		log.Printf("Report execution %d (definition %d) failed: %v", exec.ID, exec.DefinitionID, err)
	} else {
		exec.Status = models.ExecutionDone
		exec.ArtifactKey = key
	}

	if err := database.DB.Save(exec).Error; err != nil {
		log.Printf("WARNING: failed to record execution %d result: %v", exec.ID, err)
	}
}

// safeExecute confines a panicking executor to its own execution row.
func safeExecute(definitionID uint) (key string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic: %v", rec)
		}
	}()
	return Execute(definitionID)
}

func fireTimestamp(day time.Time, shippingTime string) (time.Time, error) {
	if shippingTime == "" {
		shippingTime = defaultShippingTime
	}
	t, err := time.Parse("15:04", shippingTime)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), 0, 0, period.Location), nil
}
