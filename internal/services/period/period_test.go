package period

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeWindowThisMonth(t *testing.T) {
	w, err := ComputeWindow("2024-03-15 10:00:00", ThisMonth, "", "")
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, Location), w.Start)
	assert.Equal(t, time.Date(2024, 3, 31, 23, 59, 59, int(999*time.Millisecond), Location), w.End)

	_, offset := w.Start.Zone()
	assert.Equal(t, -3*3600, offset)
}

func TestComputeWindowYesterday(t *testing.T) {
	w, err := ComputeWindow("2024-03-15", Yesterday, "", "")
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, 3, 14, 0, 0, 0, 0, Location), w.Start)
	assert.Equal(t, time.Date(2024, 3, 14, 23, 59, 59, int(999*time.Millisecond), Location), w.End)
}

func TestComputeWindowToday(t *testing.T) {
	w, err := ComputeWindow("2024-03-15 18:30:00", Today, "", "")
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, Location), w.Start)
	assert.Equal(t, 15, w.End.Day())
}

func TestComputeWindowWeeks(t *testing.T) {
	// 2024-03-15 is a Friday; its Sunday-based week starts 2024-03-10.
	w, err := ComputeWindow("2024-03-15", ThisWeek, "", "")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 10, 0, 0, 0, 0, Location), w.Start)
	assert.Equal(t, time.Date(2024, 3, 16, 23, 59, 59, int(999*time.Millisecond), Location), w.End)

	last, err := ComputeWindow("2024-03-15", LastWeek, "", "")
	require.NoError(t, err)
	assert.Equal(t, w.Start.AddDate(0, 0, -7), last.Start)
	assert.Equal(t, w.End.AddDate(0, 0, -7), last.End)
}

func TestComputeWindowLastMonth(t *testing.T) {
	// Anchor on the 31st must not skid past February.
	w, err := ComputeWindow("2024-03-31", LastMonth, "", "")
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, Location), w.Start)
	assert.Equal(t, time.Date(2024, 2, 29, 23, 59, 59, int(999*time.Millisecond), Location), w.End)
}

func TestComputeWindowStartBeforeEnd(t *testing.T) {
	codes := []string{Today, Yesterday, ThisWeek, LastWeek, ThisMonth, LastMonth}
	for _, code := range codes {
		t.Run(code, func(t *testing.T) {
			w, err := ComputeWindow("2024-03-15 10:00:00", code, "", "")
			require.NoError(t, err)
			assert.True(t, w.Start.Before(w.End), "start %v not before end %v", w.Start, w.End)
		})
	}
}

func TestComputeWindowIdempotent(t *testing.T) {
	a, err := ComputeWindow("2024-06-01 08:00:00", ThisWeek, "", "")
	require.NoError(t, err)
	b, err := ComputeWindow("2024-06-01 08:00:00", ThisWeek, "", "")
	require.NoError(t, err)

	assert.True(t, a.Start.Equal(b.Start))
	assert.True(t, a.End.Equal(b.End))
}

func TestComputeWindowTimeOverrides(t *testing.T) {
	w, err := ComputeWindow("2024-03-15", Today, "08:30", "17:45")
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, 3, 15, 8, 30, 0, 0, Location), w.Start)
	assert.Equal(t, time.Date(2024, 3, 15, 17, 45, 59, int(999*time.Millisecond), Location), w.End)
}

func TestComputeWindowInvalidCode(t *testing.T) {
	_, err := ComputeWindow("2024-03-15", "XX", "", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidPeriodCode)
	assert.Contains(t, err.Error(), "XX")
}

func TestComputeWindowInvalidAnchor(t *testing.T) {
	_, err := ComputeWindow("not-a-date", Today, "", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidAnchorTimestamp)
}

func TestComputeWindowInvalidTimeOverride(t *testing.T) {
	_, err := ComputeWindow("2024-03-15", Today, "25:99", "")
	require.Error(t, err)
}
