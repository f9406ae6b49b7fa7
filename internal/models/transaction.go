package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction statuses as reported by the acquirer.
const (
	TransactionApproved  = "approved"
	TransactionDenied    = "denied"
	TransactionCancelled = "cancelled"
	TransactionPendingSt = "pending"
)

// Transaction is one captured card transaction synced from the acquiring API.
type Transaction struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	NSU         string          `gorm:"uniqueIndex;size:32;not null" json:"nsu"`
	MerchantID  uint            `gorm:"index;not null" json:"merchant_id"`
	TerminalID  *uint           `gorm:"index" json:"terminal_id"`
	CardBrand   string          `gorm:"size:30;index" json:"card_brand"`
	PaymentType string          `gorm:"size:20;index" json:"payment_type"` // credit, debit, pix
	Status      string          `gorm:"size:20;index" json:"status"`
	CaptureMode string          `gorm:"size:20" json:"capture_mode"`
	EntryMode   string          `gorm:"size:20" json:"entry_mode"` // chip, contactless, magstripe, typed
	Amount      decimal.Decimal `gorm:"type:decimal(20,2)" json:"amount"`
	NetAmount   decimal.Decimal `gorm:"type:decimal(20,2)" json:"net_amount"`
	Cycle       string          `gorm:"size:20;index" json:"cycle"`
	PayoutID    string          `gorm:"size:32;index" json:"payout_id"` // settlement batch, set once paid
	CapturedAt  time.Time       `gorm:"index" json:"captured_at"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`

	Merchant *Merchant `gorm:"foreignKey:MerchantID" json:"merchant,omitempty"`
}

// Settlement is one payout of a transaction batch to a merchant.
type Settlement struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	PayoutID    string          `gorm:"uniqueIndex;size:32;not null" json:"payout_id"`
	MerchantID  uint            `gorm:"index;not null" json:"merchant_id"`
	GrossAmount decimal.Decimal `gorm:"type:decimal(20,2)" json:"gross_amount"`
	FeeAmount   decimal.Decimal `gorm:"type:decimal(20,2)" json:"fee_amount"`
	NetAmount   decimal.Decimal `gorm:"type:decimal(20,2)" json:"net_amount"`
	Status      string          `gorm:"size:20;index" json:"status"` // scheduled, paid, failed
	PaidAt      *time.Time      `gorm:"index" json:"paid_at"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
