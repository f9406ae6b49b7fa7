package report

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"merchant-portal/internal/database"
	"merchant-portal/internal/models"
	"merchant-portal/internal/services/period"
	"merchant-portal/internal/services/storage"
)

type memStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	failPut bool
}

func (s *memStore) Put(_ context.Context, key string, data []byte, _ string) error {
	if s.failPut {
		return storage.ErrArtifactUpload
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.objects == nil {
		s.objects = make(map[string][]byte)
	}
	s.objects[key] = data
	return nil
}

func (s *memStore) PresignGet(_ context.Context, key string, _ time.Duration) (string, error) {
	return "https://storage.example.com/" + key, nil
}

type memSender struct {
	mu       sync.Mutex
	sent     [][]string
	subjects []string
}

func (m *memSender) Send(to []string, subject, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, to)
	m.subjects = append(m.subjects, subject)
	return nil
}

func setupDB(t *testing.T) {
	t.Helper()
	_, err := database.Connect(filepath.Join(t.TempDir(), "portal.db"))
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(
		&models.ReportDefinition{},
		&models.ReportFilter{},
		&models.ScheduledExecution{},
		&models.Transaction{},
	))
}

func setupPipeline(t *testing.T) (*memStore, *memSender) {
	t.Helper()
	setupDB(t)

	st := &memStore{}
	se := &memSender{}
	prevStore, prevSender, prevPrefix := store, sender, keyPrefix
	Init(st, se, "reports/")
	t.Cleanup(func() {
		store, sender, keyPrefix = prevStore, prevSender, prevPrefix
	})
	return st, se
}

func TestScheduleNextDayCreatesPendingExecution(t *testing.T) {
	setupDB(t)

	def := models.ReportDefinition{
		Title:          "Vendas Diárias",
		RecurrenceCode: "DIA",
		PeriodCode:     period.Today,
		ShippingTime:   "08:30",
		Active:         true,
	}
	require.NoError(t, database.DB.Create(&def).Error)

	n, err := ScheduleNextDay()
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	var exec models.ScheduledExecution
	require.NoError(t, database.DB.First(&exec).Error)
	assert.Equal(t, def.ID, exec.DefinitionID)
	assert.Equal(t, models.ExecutionPending, exec.Status)

	tomorrow := time.Now().In(period.Location).AddDate(0, 0, 1)
	fireAt := exec.FireAt.In(period.Location)
	assert.Equal(t, tomorrow.Day(), fireAt.Day())
	assert.Equal(t, 8, fireAt.Hour())
	assert.Equal(t, 30, fireAt.Minute())

	// Second run the same day must not duplicate the execution.
	n, err = ScheduleNextDay()
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	var count int64
	database.DB.Model(&models.ScheduledExecution{}).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestScheduleNextDaySkipsInactiveAndNonFiring(t *testing.T) {
	setupDB(t)

	tomorrow := time.Now().In(period.Location).AddDate(0, 0, 1)
	otherDay := ((tomorrow.Weekday() + 1) % 7).String()

	require.NoError(t, database.DB.Create(&models.ReportDefinition{
		Title:          "Desativado",
		RecurrenceCode: "DIA",
		PeriodCode:     period.Today,
		Active:         false,
	}).Error)
	require.NoError(t, database.DB.Create(&models.ReportDefinition{
		Title:          "Outro Dia",
		RecurrenceCode: "SEM",
		DayOfWeek:      otherDay,
		PeriodCode:     period.LastWeek,
		Active:         true,
	}).Error)

	// An explicit false must survive the insert; a column default would
	// silently flip it back to active and schedule the report anyway.
	var stored models.ReportDefinition
	require.NoError(t, database.DB.Where("title = ?", "Desativado").First(&stored).Error)
	assert.False(t, stored.Active)

	n, err := ScheduleNextDay()
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestScheduleNextDaySkipsInvalidShippingTime(t *testing.T) {
	setupDB(t)

	require.NoError(t, database.DB.Create(&models.ReportDefinition{
		Title:          "Horário Quebrado",
		RecurrenceCode: "DIA",
		PeriodCode:     period.Today,
		ShippingTime:   "25:99",
		Active:         true,
	}).Error)

	n, err := ScheduleNextDay()
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestProcessDueExecutionsBatchIsolation(t *testing.T) {
	st, se := setupPipeline(t)

	good := models.ReportDefinition{
		Title:          "Vendas do Dia",
		RecurrenceCode: "DIA",
		PeriodCode:     period.Today,
		Recipients:     "ops@example.com",
		Active:         true,
	}
	require.NoError(t, database.DB.Create(&good).Error)

	// An unknown period code only exists through manual data edits, but the
	// executor must still confine the failure to its own row.
	bad := models.ReportDefinition{
		Title:          "Quebrado",
		RecurrenceCode: "DIA",
		PeriodCode:     "XX",
		Active:         true,
	}
	require.NoError(t, database.DB.Create(&bad).Error)

	require.NoError(t, database.DB.Create(&models.Transaction{
		NSU:         "900001",
		MerchantID:  1,
		CardBrand:   "visa",
		PaymentType: "credit",
		Status:      models.TransactionApproved,
		Amount:      decimal.NewFromFloat(150.50),
		NetAmount:   decimal.NewFromFloat(147.20),
		CapturedAt:  time.Now(),
	}).Error)

	past := time.Now().Add(-time.Minute)
	goodExec := models.ScheduledExecution{DefinitionID: good.ID, FireAt: past, Status: models.ExecutionPending}
	badExec := models.ScheduledExecution{DefinitionID: bad.ID, FireAt: past, Status: models.ExecutionPending}
	require.NoError(t, database.DB.Create(&goodExec).Error)
	require.NoError(t, database.DB.Create(&badExec).Error)

	require.NoError(t, ProcessDueExecutions())

	require.NoError(t, database.DB.First(&goodExec, goodExec.ID).Error)
	assert.Equal(t, models.ExecutionDone, goodExec.Status)
	assert.Contains(t, goodExec.ArtifactKey, "reports/vendas-do-dia-")
	require.NotNil(t, goodExec.FinishedAt)
	assert.Contains(t, st.objects, goodExec.ArtifactKey)
	require.Len(t, se.sent, 1)
	assert.Equal(t, []string{"ops@example.com"}, se.sent[0])

	require.NoError(t, database.DB.First(&badExec, badExec.ID).Error)
	assert.Equal(t, models.ExecutionError, badExec.Status)
	assert.Contains(t, badExec.ErrorMessage, "XX")
	assert.Empty(t, badExec.ArtifactKey)
	require.NotNil(t, badExec.FinishedAt)
}

func TestProcessDueExecutionsRecordsUploadFailure(t *testing.T) {
	st, _ := setupPipeline(t)
	st.failPut = true

	def := models.ReportDefinition{
		Title:          "Upload Falha",
		RecurrenceCode: "DIA",
		PeriodCode:     period.Today,
		Active:         true,
	}
	require.NoError(t, database.DB.Create(&def).Error)

	exec := models.ScheduledExecution{
		DefinitionID: def.ID,
		FireAt:       time.Now().Add(-time.Minute),
		Status:       models.ExecutionPending,
	}
	require.NoError(t, database.DB.Create(&exec).Error)

	require.NoError(t, ProcessDueExecutions())

	require.NoError(t, database.DB.First(&exec, exec.ID).Error)
	assert.Equal(t, models.ExecutionError, exec.Status)
	assert.Contains(t, exec.ErrorMessage, "artifact upload failed")
}

func TestProcessDueExecutionsIgnoresFutureAndTerminal(t *testing.T) {
	setupPipeline(t)

	def := models.ReportDefinition{
		Title:          "Futuro",
		RecurrenceCode: "DIA",
		PeriodCode:     period.Today,
		Active:         true,
	}
	require.NoError(t, database.DB.Create(&def).Error)

	future := models.ScheduledExecution{DefinitionID: def.ID, FireAt: time.Now().Add(time.Hour), Status: models.ExecutionPending}
	done := models.ScheduledExecution{DefinitionID: def.ID, FireAt: time.Now().Add(-time.Hour), Status: models.ExecutionDone}
	require.NoError(t, database.DB.Create(&future).Error)
	require.NoError(t, database.DB.Create(&done).Error)

	require.NoError(t, ProcessDueExecutions())

	require.NoError(t, database.DB.First(&future, future.ID).Error)
	assert.Equal(t, models.ExecutionPending, future.Status)
	require.NoError(t, database.DB.First(&done, done.ID).Error)
	assert.Equal(t, models.ExecutionDone, done.Status)
}

func TestEnqueueProcessingNeverBlocks(t *testing.T) {
	doneCh := make(chan struct{})
	go func() {
		EnqueueProcessing()
		EnqueueProcessing()
		EnqueueProcessing()
		close(doneCh)
	}()

	select {
	case <-doneCh:
	case <-time.After(time.Second):
		t.Fatal("EnqueueProcessing blocked")
	}
}
