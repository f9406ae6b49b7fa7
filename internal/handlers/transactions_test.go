package handlers

import (
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"merchant-portal/internal/database"
	"merchant-portal/internal/models"
	"merchant-portal/internal/services/period"
)

func TestGetTransactionsPaginatesInDatabase(t *testing.T) {
	_, err := database.Connect(filepath.Join(t.TempDir(), "portal.db"))
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(&models.Transaction{}))

	w, err := period.ComputeWindowAt(time.Now(), period.Today, "", "")
	require.NoError(t, err)

	for i := 1; i <= 5; i++ {
		require.NoError(t, database.DB.Create(&models.Transaction{
			NSU:        fmt.Sprintf("%06d", i),
			MerchantID: 1,
			Status:     models.TransactionApproved,
			Amount:     decimal.NewFromInt(int64(i)),
			CapturedAt: w.Start.Add(time.Duration(i) * time.Minute),
		}).Error)
	}

	app := fiber.New()
	app.Get("/api/transactions", GetTransactions)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/transactions?period=DT&page=2&page_size=2", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Total int64                `json:"total"`
		Page  int                  `json:"page"`
		Items []models.Transaction `json:"items"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))

	assert.EqualValues(t, 5, body.Total)
	assert.Equal(t, 2, body.Page)
	require.Len(t, body.Items, 2)
	assert.Equal(t, "000003", body.Items[0].NSU)
	assert.Equal(t, "000004", body.Items[1].NSU)
}
