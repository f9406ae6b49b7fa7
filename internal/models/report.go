package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Scheduled execution statuses. Terminal states are done and error; there is
// no automatic retry.
const (
	ExecutionPending = "pending"
	ExecutionRunning = "running"
	ExecutionDone    = "done"
	ExecutionError   = "error"
)

// Known report filter kinds. Query construction switches over these
// exhaustively; unknown kinds are rejected at create time.
const (
	FilterCardBrand   = "card_brand"
	FilterPaymentType = "payment_type"
	FilterStatus      = "status"
	FilterMerchant    = "merchant"
	FilterAmount      = "amount"
	FilterTerminal    = "terminal"
	FilterCaptureMode = "capture_mode"
	FilterEntryMode   = "entry_mode"
	FilterCycle       = "cycle"
	FilterPayout      = "payout"
	FilterNSU         = "nsu"
)

var FilterKinds = []string{
	FilterCardBrand, FilterPaymentType, FilterStatus, FilterMerchant,
	FilterAmount, FilterTerminal, FilterCaptureMode, FilterEntryMode,
	FilterCycle, FilterPayout, FilterNSU,
}

// ReportDefinition is an admin-configured recurring report. Recurrence codes
// are DIA/SEM/MES, period codes DT/DA/SA/SR/MA/MR (see services/period and
// services/recurrence).
type ReportDefinition struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	Title          string         `gorm:"size:150;not null" json:"title"`
	Tenant         string         `gorm:"size:60;index" json:"tenant"`
	RecurrenceCode string         `gorm:"size:3;not null" json:"recurrence_code"`
	DayOfWeek      string         `gorm:"size:10" json:"day_of_week"`  // weekday name, SEM only
	DayOfMonth     string         `gorm:"size:2" json:"day_of_month"`  // numeral string, MES only
	PeriodCode     string         `gorm:"size:2;not null" json:"period_code"`
	StartTime      string         `gorm:"size:5" json:"start_time"`    // HH:MM override
	EndTime        string         `gorm:"size:5" json:"end_time"`      // HH:MM override
	ShippingTime   string         `gorm:"size:5" json:"shipping_time"` // HH:MM fire time
	OutputFormat   string         `gorm:"size:10;default:'xlsx'" json:"output_format"`
	Recipients     string         `gorm:"type:text" json:"recipients"` // comma-separated emails
	Active         bool           `gorm:"index" json:"active"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	Filters []ReportFilter `gorm:"foreignKey:DefinitionID" json:"filters,omitempty"`
}

// ReportFilter is one constraint attached to a definition. Kind is one of the
// Filter* constants; Value and ValueEnd carry the operands (ValueEnd only for
// range kinds such as amount).
type ReportFilter struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	DefinitionID uint   `gorm:"index;not null" json:"definition_id"`
	Kind         string `gorm:"size:20;not null" json:"kind"`
	Value        string `gorm:"size:100;not null" json:"value"`
	ValueEnd     string `gorm:"size:100" json:"value_end"`
}

// ScheduledExecution is one concrete (definition, fire date) instance
// persisted by the scheduler and consumed by the executor.
type ScheduledExecution struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	DefinitionID uint       `gorm:"index;not null" json:"definition_id"`
	FireAt       time.Time  `gorm:"index;not null" json:"fire_at"`
	Status       string     `gorm:"size:10;default:'pending';index" json:"status"`
	ErrorMessage string     `gorm:"type:text" json:"error_message"`
	ArtifactKey  string     `gorm:"size:255" json:"artifact_key"`
	StartedAt    *time.Time `json:"started_at"`
	FinishedAt   *time.Time `json:"finished_at"`
	CreatedAt    time.Time  `json:"created_at"`

	Definition *ReportDefinition `gorm:"foreignKey:DefinitionID" json:"definition,omitempty"`
}

// RecipientList splits the stored comma-separated recipients.
func (d *ReportDefinition) RecipientList() []string {
	var out []string
	for _, addr := range strings.Split(d.Recipients, ",") {
		if addr = strings.TrimSpace(addr); addr != "" {
			out = append(out, addr)
		}
	}
	return out
}
