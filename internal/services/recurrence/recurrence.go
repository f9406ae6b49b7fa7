// Package recurrence decides whether a report definition fires on a given
// calendar date.
package recurrence

import (
	"log"
	"strconv"
	"strings"
	"time"

	"merchant-portal/internal/models"
)

// Recurrence codes.
const (
	Daily   = "DIA"
	Weekly  = "SEM"
	Monthly = "MES"
)

// ShouldFire reports whether def fires on date. Daily definitions always
// fire; weekly ones fire when the weekday name matches (case-insensitive);
// monthly ones when the day-of-month numeral matches. Unknown codes are
// skipped, with a warning so the skip is visible in logs.
func ShouldFire(def *models.ReportDefinition, date time.Time) bool {
	switch def.RecurrenceCode {
	case Daily:
		return true
	case Weekly:
		return strings.EqualFold(def.DayOfWeek, date.Weekday().String())
	case Monthly:
		return def.DayOfMonth == strconv.Itoa(date.Day())
	default:
		log.Printf("WARNING: report definition %d has unknown recurrence code %q, skipping", def.ID, def.RecurrenceCode)
		return false
	}
}
