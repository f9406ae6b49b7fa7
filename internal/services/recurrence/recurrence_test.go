package recurrence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"merchant-portal/internal/models"
	"merchant-portal/internal/services/period"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, period.Location)
}

func TestShouldFireDaily(t *testing.T) {
	def := &models.ReportDefinition{RecurrenceCode: Daily}
	for d := 1; d <= 28; d++ {
		assert.True(t, ShouldFire(def, date(2024, time.February, d)))
	}
}

func TestShouldFireWeekly(t *testing.T) {
	def := &models.ReportDefinition{RecurrenceCode: Weekly, DayOfWeek: "monday"}

	// 2024-03-11 is a Monday.
	assert.True(t, ShouldFire(def, date(2024, time.March, 11)))
	assert.False(t, ShouldFire(def, date(2024, time.March, 12)))
	assert.False(t, ShouldFire(def, date(2024, time.March, 10)))

	// Case-insensitive weekday match.
	def.DayOfWeek = "MONDAY"
	assert.True(t, ShouldFire(def, date(2024, time.March, 11)))
}

func TestShouldFireMonthly(t *testing.T) {
	def := &models.ReportDefinition{RecurrenceCode: Monthly, DayOfMonth: "15"}

	assert.True(t, ShouldFire(def, date(2024, time.March, 15)))
	assert.False(t, ShouldFire(def, date(2024, time.March, 14)))
	assert.False(t, ShouldFire(def, date(2024, time.April, 16)))
}

func TestShouldFireUnknownCode(t *testing.T) {
	def := &models.ReportDefinition{ID: 7, RecurrenceCode: "ANO"}
	assert.False(t, ShouldFire(def, date(2024, time.March, 15)))
}
