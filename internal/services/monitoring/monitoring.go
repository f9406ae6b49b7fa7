// Package monitoring owns the lifecycle of background job audit rows.
// A run is created as running and is guaranteed to reach done or error on
// every exit path, including panics, when jobs go through Guard.
package monitoring

import (
	"fmt"
	"log"
	"time"

	"merchant-portal/internal/database"
	"merchant-portal/internal/models"
	ws "merchant-portal/internal/services/websocket"
)

// Run is a live job audit row.
type Run struct {
	row      models.JobRun
	finished bool
}

// Start creates the audit row for one invocation of jobName.
func Start(jobName string) *Run {
	r := &Run{
		row: models.JobRun{
			JobName:   jobName,
			Status:    models.JobRunning,
			StartedAt: time.Now(),
		},
	}
	if err := database.DB.Create(&r.row).Error; err != nil {
		log.Printf("WARNING: failed to create job run for %s: %v", jobName, err)
	}
	publish(&r.row)
	return r
}

// Finish transitions the run to its terminal state. It is idempotent; the
// first call wins.
func (r *Run) Finish(err error, detail string) {
	if r.finished {
		return
	}
	r.finished = true

	now := time.Now()
	r.row.FinishedAt = &now
	r.row.Detail = detail
	if err != nil {
		r.row.Status = models.JobError
		r.row.Detail = err.Error()
	} else {
		r.row.Status = models.JobDone
	}

	if r.row.ID != 0 {
		if dbErr := database.DB.Save(&r.row).Error; dbErr != nil {
			log.Printf("WARNING: failed to finish job run %d (%s): %v", r.row.ID, r.row.JobName, dbErr)
		}
	}
	publish(&r.row)
}

// Guard runs fn inside a monitored scope. Panics are recovered and recorded
// as an error terminal state, then returned as errors to the caller.
func Guard(jobName string, fn func() error) (err error) {
	run := Start(jobName)
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic: %v", rec)
		}
		run.Finish(err, "")
	}()
	return fn()
}

// List returns the most recent runs, newest first.
func List(limit int) ([]models.JobRun, error) {
	if limit <= 0 {
		limit = 50
	}
	var runs []models.JobRun
	err := database.DB.Order("started_at desc").Limit(limit).Find(&runs).Error
	return runs, err
}

func publish(row *models.JobRun) {
	ws.Publish(map[string]interface{}{
		"type": "job_run",
		"run":  row,
	})
}
