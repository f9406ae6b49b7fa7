package dock

import (
	"fmt"
	"log"
	"time"

	"gorm.io/gorm/clause"

	"merchant-portal/internal/database"
	"merchant-portal/internal/models"
	"merchant-portal/internal/services/period"
)

var client *Client

// Init wires the package-wide acquirer client.
func Init(baseURL, apiToken string) {
	client = NewClient(baseURL, apiToken)
}

// SyncMerchants pulls merchants changed in the last 24h and upserts them.
// Local onboarding status is authoritative for pending merchants; only
// acquirer-side blocks are copied back.
func SyncMerchants() error {
	records, err := client.Merchants(time.Now().Add(-24 * time.Hour))
	if err != nil {
		return err
	}

	for _, rec := range records {
		dockID := rec.ID
		merchant := models.Merchant{
			DockID:    &dockID,
			LegalName: rec.LegalName,
			TradeName: rec.TradeName,
			Document:  rec.Document,
			Email:     rec.Email,
			Phone:     rec.Phone,
			MCC:       rec.MCC,
			Status:    models.MerchantPending,
		}
		if rec.Status == "blocked" {
			merchant.Status = models.MerchantBlocked
		}

		err := database.DB.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "dock_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"legal_name", "trade_name", "email", "phone", "mcc",
			}),
		}).Create(&merchant).Error
		if err != nil {
			return fmt.Errorf("failed to upsert merchant %s: %w", rec.ID, err)
		}
	}

	log.Printf("Dock merchant sync: %d records", len(records))
	return nil
}

// SyncTransactions pulls yesterday's and today's captures and upserts by NSU.
func SyncTransactions() error {
	now := time.Now().In(period.Location)
	w, err := period.ComputeWindowAt(now, period.Yesterday, "", "")
	if err != nil {
		return err
	}

	records, err := client.Transactions(w.Start, now)
	if err != nil {
		return err
	}

	merchantIDs, err := merchantIndex()
	if err != nil {
		return err
	}
	terminalIDs, err := terminalIndex()
	if err != nil {
		return err
	}

	skipped := 0
	for _, rec := range records {
		merchantID, ok := merchantIDs[rec.MerchantID]
		if !ok {
			skipped++
			continue
		}

		tx := models.Transaction{
			NSU:         rec.NSU,
			MerchantID:  merchantID,
			CardBrand:   rec.CardBrand,
			PaymentType: rec.PaymentType,
			Status:      rec.Status,
			CaptureMode: rec.CaptureMode,
			EntryMode:   rec.EntryMode,
			Amount:      rec.Amount,
			NetAmount:   rec.NetAmount,
			Cycle:       rec.Cycle,
			PayoutID:    rec.PayoutID,
			CapturedAt:  rec.CapturedAt,
		}
		// The acquirer sends its logical terminal id; unknown terminals leave
		// the column null rather than dropping the transaction.
		if localID, ok := terminalIDs[rec.TerminalID]; ok {
			tx.TerminalID = &localID
		}

		err := database.DB.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "nsu"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"status", "payout_id", "net_amount", "cycle",
			}),
		}).Create(&tx).Error
		if err != nil {
			return fmt.Errorf("failed to upsert transaction %s: %w", rec.NSU, err)
		}
	}

	if skipped > 0 {
		log.Printf("Dock transaction sync: %d records skipped (unknown merchant)", skipped)
	}
	log.Printf("Dock transaction sync: %d records", len(records))
	return nil
}

// SyncSettlements pulls yesterday's payouts and upserts by payout id.
func SyncSettlements() error {
	yesterday := time.Now().In(period.Location).AddDate(0, 0, -1)

	records, err := client.Settlements(yesterday)
	if err != nil {
		return err
	}

	merchantIDs, err := merchantIndex()
	if err != nil {
		return err
	}

	for _, rec := range records {
		merchantID, ok := merchantIDs[rec.MerchantID]
		if !ok {
			continue
		}

		settlement := models.Settlement{
			PayoutID:    rec.PayoutID,
			MerchantID:  merchantID,
			GrossAmount: rec.GrossAmount,
			FeeAmount:   rec.FeeAmount,
			NetAmount:   rec.NetAmount,
			Status:      rec.Status,
			PaidAt:      rec.PaidAt,
		}

		err := database.DB.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "payout_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"status", "paid_at", "gross_amount", "fee_amount", "net_amount",
			}),
		}).Create(&settlement).Error
		if err != nil {
			return fmt.Errorf("failed to upsert settlement %s: %w", rec.PayoutID, err)
		}
	}

	log.Printf("Dock settlement sync: %d records", len(records))
	return nil
}

// terminalIndex maps acquirer logical terminal ids to local primary keys.
func terminalIndex() (map[string]uint, error) {
	var terminals []models.Terminal
	if err := database.DB.Select("id", "logical_id").Find(&terminals).Error; err != nil {
		return nil, fmt.Errorf("failed to index terminals: %w", err)
	}

	index := make(map[string]uint, len(terminals))
	for _, t := range terminals {
		if t.LogicalID != "" {
			index[t.LogicalID] = t.ID
		}
	}
	return index, nil
}

// merchantIndex maps acquirer merchant ids to local primary keys.
func merchantIndex() (map[string]uint, error) {
	var merchants []models.Merchant
	if err := database.DB.Select("id", "dock_id").Find(&merchants).Error; err != nil {
		return nil, fmt.Errorf("failed to index merchants: %w", err)
	}

	index := make(map[string]uint, len(merchants))
	for _, m := range merchants {
		if m.DockID != nil && *m.DockID != "" {
			index[*m.DockID] = m.ID
		}
	}
	return index, nil
}
