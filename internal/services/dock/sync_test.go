package dock

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"merchant-portal/internal/database"
	"merchant-portal/internal/models"
)

func setupSyncDB(t *testing.T) {
	t.Helper()
	_, err := database.Connect(filepath.Join(t.TempDir(), "portal.db"))
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(
		&models.Merchant{},
		&models.Terminal{},
		&models.Transaction{},
	))
}

func TestSyncTransactionsMapsMerchantAndTerminal(t *testing.T) {
	setupSyncDB(t)

	dockID := "MER-1"
	merchant := models.Merchant{
		DockID:    &dockID,
		LegalName: "Loja Um",
		Document:  "11111111000111",
		Status:    models.MerchantApproved,
	}
	require.NoError(t, database.DB.Create(&merchant).Error)

	terminal := models.Terminal{MerchantID: merchant.ID, LogicalID: "TERM-9", Active: true}
	require.NoError(t, database.DB.Create(&terminal).Error)

	capturedAt := time.Now().UTC().Format(time.RFC3339)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v2/transactions", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"items": []map[string]interface{}{
				{
					"nsu": "555", "merchantId": "MER-1", "terminalId": "TERM-9",
					"cardBrand": "visa", "paymentType": "credit", "status": "approved",
					"amount": "150.50", "netAmount": "147.20", "capturedAt": capturedAt,
				},
				{
					"nsu": "556", "merchantId": "MER-1", "terminalId": "TERM-UNKNOWN",
					"cardBrand": "master", "paymentType": "debit", "status": "approved",
					"amount": "10.00", "netAmount": "9.80", "capturedAt": capturedAt,
				},
				{
					"nsu": "557", "merchantId": "MER-UNKNOWN", "terminalId": "TERM-9",
					"amount": "5.00", "netAmount": "4.90", "capturedAt": capturedAt,
				},
			},
			"nextCursor": "",
		})
	}))
	defer srv.Close()

	Init(srv.URL, "test-token")
	require.NoError(t, SyncTransactions())

	var tx models.Transaction
	require.NoError(t, database.DB.Where("nsu = ?", "555").First(&tx).Error)
	assert.Equal(t, merchant.ID, tx.MerchantID)
	require.NotNil(t, tx.TerminalID)
	assert.Equal(t, terminal.ID, *tx.TerminalID)

	// Unknown terminal keeps the transaction, without a local terminal link.
	var tx2 models.Transaction
	require.NoError(t, database.DB.Where("nsu = ?", "556").First(&tx2).Error)
	assert.Nil(t, tx2.TerminalID)

	// Unknown merchant is skipped entirely.
	var count int64
	database.DB.Model(&models.Transaction{}).Where("nsu = ?", "557").Count(&count)
	assert.EqualValues(t, 0, count)
}
