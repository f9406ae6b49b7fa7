package models

import (
	"time"

	"gorm.io/gorm"
)

// Merchant onboarding pipeline states.
const (
	MerchantPending  = "pending"
	MerchantApproved = "approved"
	MerchantRejected = "rejected"
	MerchantBlocked  = "blocked"
)

type Merchant struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	// DockID is nil for manually onboarded merchants; only synced rows carry
	// the acquirer id, so the unique index never collides on empties.
	DockID       *string        `gorm:"uniqueIndex;size:64" json:"dock_id"`
	LegalName    string         `gorm:"size:200;not null" json:"legal_name"`
	TradeName    string         `gorm:"size:200" json:"trade_name"`
	Document     string         `gorm:"uniqueIndex;size:20;not null" json:"document"` // CNPJ/CPF
	Email        string         `gorm:"size:150" json:"email"`
	Phone        string         `gorm:"size:30" json:"phone"`
	Status       string         `gorm:"size:20;default:'pending';index" json:"status"`
	MCC          string         `gorm:"size:8" json:"mcc"`
	Tenant       string         `gorm:"size:60;index" json:"tenant"`
	FeePlanID    *uint          `gorm:"index" json:"fee_plan_id"`
	ApprovedAt   *time.Time     `json:"approved_at"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	Terminals []Terminal `gorm:"foreignKey:MerchantID" json:"terminals,omitempty"`
}

type Terminal struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	MerchantID   uint           `gorm:"index;not null" json:"merchant_id"`
	LogicalID    string         `gorm:"uniqueIndex;size:32;not null" json:"logical_id"`
	SerialNumber string         `gorm:"size:64" json:"serial_number"`
	Model        string         `gorm:"size:60" json:"model"`
	CaptureMode  string         `gorm:"size:20" json:"capture_mode"` // POS, TEF, ECOMMERCE
	Active       bool           `json:"active"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}
