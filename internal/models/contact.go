package models

import "time"

// ContactMessage is a submission from the public marketing-site form.
type ContactMessage struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Tenant    string    `gorm:"size:60;index" json:"tenant"`
	Name      string    `gorm:"size:120;not null" json:"name"`
	Email     string    `gorm:"size:150;not null" json:"email"`
	Phone     string    `gorm:"size:30" json:"phone"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	IP        string    `gorm:"size:45" json:"ip"`
	CreatedAt time.Time `json:"created_at"`
}
