package models

import (
	"time"

	"gorm.io/gorm"
)

// TenantTheme maps a subdomain to its color tokens and display name.
// Long-lived and rarely mutated; served through the theme cache.
type TenantTheme struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	Subdomain      string         `gorm:"uniqueIndex;size:60;not null" json:"subdomain"`
	DisplayName    string         `gorm:"size:120;not null" json:"display_name"`
	PrimaryColor   string         `gorm:"size:9" json:"primary_color"`
	SecondaryColor string         `gorm:"size:9" json:"secondary_color"`
	LogoURL        string         `gorm:"size:255" json:"logo_url"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

// Default tokens used when a subdomain has no theme row.
const (
	DefaultPrimaryColor   = "#0F4C81"
	DefaultSecondaryColor = "#F2A900"
)
