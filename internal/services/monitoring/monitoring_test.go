package monitoring

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"merchant-portal/internal/database"
	"merchant-portal/internal/models"
)

func setupDB(t *testing.T) {
	t.Helper()
	_, err := database.Connect(filepath.Join(t.TempDir(), "portal.db"))
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(&models.JobRun{}))
}

func lastRun(t *testing.T) models.JobRun {
	t.Helper()
	var run models.JobRun
	require.NoError(t, database.DB.Order("id desc").First(&run).Error)
	return run
}

func TestGuardRecordsSuccess(t *testing.T) {
	setupDB(t)

	err := Guard("report-schedule", func() error { return nil })
	require.NoError(t, err)

	run := lastRun(t)
	assert.Equal(t, "report-schedule", run.JobName)
	assert.Equal(t, models.JobDone, run.Status)
	assert.NotNil(t, run.FinishedAt)
}

func TestGuardRecordsError(t *testing.T) {
	setupDB(t)

	err := Guard("dock-merchant-sync", func() error {
		return errors.New("acquirer unreachable")
	})
	require.EqualError(t, err, "acquirer unreachable")

	run := lastRun(t)
	assert.Equal(t, models.JobError, run.Status)
	assert.Equal(t, "acquirer unreachable", run.Detail)
	assert.NotNil(t, run.FinishedAt)
}

func TestGuardRecoversPanic(t *testing.T) {
	setupDB(t)

	err := Guard("report-execution", func() error {
		panic("boom")
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "panic")
	assert.Contains(t, err.Error(), "boom")

	run := lastRun(t)
	assert.Equal(t, models.JobError, run.Status)
	assert.Contains(t, run.Detail, "boom")
}

func TestFinishFirstCallWins(t *testing.T) {
	setupDB(t)

	run := Start("dock-settlement-sync")
	run.Finish(nil, "ok")
	run.Finish(errors.New("late failure"), "")

	row := lastRun(t)
	assert.Equal(t, models.JobDone, row.Status)
	assert.Equal(t, "ok", row.Detail)
}

func TestListNewestFirst(t *testing.T) {
	setupDB(t)

	for i := 0; i < 3; i++ {
		require.NoError(t, Guard("job", func() error { return nil }))
	}

	runs, err := List(2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.GreaterOrEqual(t, runs[0].ID, runs[1].ID)
}
