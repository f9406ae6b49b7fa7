package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// FeePlan holds the pricing applied to a merchant's transactions.
type FeePlan struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"size:100;not null" json:"name"`
	Tenant    string         `gorm:"size:60;index" json:"tenant"`
	Active    bool           `json:"active"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Rates []FeeRate `gorm:"foreignKey:FeePlanID" json:"rates,omitempty"`
}

// FeeRate is the MDR and anticipation rate for one (payment type, brand,
// installments) combination.
type FeeRate struct {
	ID               uint            `gorm:"primaryKey" json:"id"`
	FeePlanID        uint            `gorm:"index;not null" json:"fee_plan_id"`
	PaymentType      string          `gorm:"size:20;not null" json:"payment_type"`
	CardBrand        string          `gorm:"size:30" json:"card_brand"` // empty = any brand
	Installments     int             `gorm:"default:1" json:"installments"`
	MDRPercent       decimal.Decimal `gorm:"type:decimal(8,4)" json:"mdr_percent"`
	AnticipationRate decimal.Decimal `gorm:"type:decimal(8,4)" json:"anticipation_rate"` // % per month
}
