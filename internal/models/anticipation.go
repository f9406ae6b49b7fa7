package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Anticipation request states.
const (
	AnticipationRequested = "requested"
	AnticipationApproved  = "approved"
	AnticipationRejected  = "rejected"
	AnticipationSettled   = "settled"
)

// AnticipationRequest is a merchant's request to advance future receivables.
// NetAmount is computed from the merchant's fee plan at approval time.
type AnticipationRequest struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	MerchantID      uint            `gorm:"index;not null" json:"merchant_id"`
	RequestedAmount decimal.Decimal `gorm:"type:decimal(20,2)" json:"requested_amount"`
	FeeAmount       decimal.Decimal `gorm:"type:decimal(20,2)" json:"fee_amount"`
	NetAmount       decimal.Decimal `gorm:"type:decimal(20,2)" json:"net_amount"`
	Status          string          `gorm:"size:20;default:'requested';index" json:"status"`
	ReviewedBy      *uint           `json:"reviewed_by"`
	ReviewedAt      *time.Time      `json:"reviewed_at"`
	ReviewNote      string          `gorm:"type:text" json:"review_note"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	DeletedAt       gorm.DeletedAt  `gorm:"index" json:"-"`

	Merchant *Merchant `gorm:"foreignKey:MerchantID" json:"merchant,omitempty"`
}
