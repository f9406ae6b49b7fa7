package models

import "time"

// Job run states. Every run reaches done or error; the monitoring service
// guarantees the transition on all exit paths.
const (
	JobRunning = "running"
	JobDone    = "done"
	JobError   = "error"
)

// JobRun is the audit record of one background job invocation (report
// scheduling, report execution, acquirer syncs).
type JobRun struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	JobName    string     `gorm:"size:60;index;not null" json:"job_name"`
	Status     string     `gorm:"size:10;default:'running';index" json:"status"`
	Detail     string     `gorm:"type:text" json:"detail"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at"`
	CreatedAt  time.Time  `json:"created_at"`
}
