package report

import (
	"fmt"

	"gorm.io/gorm"

	"merchant-portal/internal/database"
	"merchant-portal/internal/models"
	"merchant-portal/internal/services/period"
)

// TransactionQuery composes the window and filter constraints without
// executing them, so callers can count and paginate in the database. Filter
// kinds are applied exhaustively; an unknown kind is a hard error rather
// than a silently ignored constraint.
func TransactionQuery(w period.Window, filters []models.ReportFilter) (*gorm.DB, error) {
	q := database.DB.Model(&models.Transaction{}).
		Where("captured_at BETWEEN ? AND ?", w.Start, w.End)

	for _, f := range filters {
		var err error
		q, err = applyFilter(q, f)
		if err != nil {
			return nil, err
		}
	}
	return q, nil
}

// QueryTransactions returns every transaction inside the window that
// satisfies the attached filters, ordered by capture time.
func QueryTransactions(w period.Window, filters []models.ReportFilter) ([]models.Transaction, error) {
	q, err := TransactionQuery(w, filters)
	if err != nil {
		return nil, err
	}

	var rows []models.Transaction
	if err := q.Order("captured_at asc").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func applyFilter(q *gorm.DB, f models.ReportFilter) (*gorm.DB, error) {
	switch f.Kind {
	case models.FilterCardBrand:
		return q.Where("card_brand = ?", f.Value), nil
	case models.FilterPaymentType:
		return q.Where("payment_type = ?", f.Value), nil
	case models.FilterStatus:
		return q.Where("status = ?", f.Value), nil
	case models.FilterMerchant:
		return q.Where("merchant_id = ?", f.Value), nil
	case models.FilterAmount:
		if f.ValueEnd != "" {
			return q.Where("amount BETWEEN ? AND ?", f.Value, f.ValueEnd), nil
		}
		return q.Where("amount = ?", f.Value), nil
	case models.FilterTerminal:
		return q.Where("terminal_id = ?", f.Value), nil
	case models.FilterCaptureMode:
		return q.Where("capture_mode = ?", f.Value), nil
	case models.FilterEntryMode:
		return q.Where("entry_mode = ?", f.Value), nil
	case models.FilterCycle:
		return q.Where("cycle = ?", f.Value), nil
	case models.FilterPayout:
		return q.Where("payout_id = ?", f.Value), nil
	case models.FilterNSU:
		return q.Where("nsu = ?", f.Value), nil
	default:
		return nil, fmt.Errorf("unknown report filter kind %q", f.Kind)
	}
}
