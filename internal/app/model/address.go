package model

import (
	"time"

	"gorm.io/gorm"
)

type Address struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	UserID      uint           `gorm:"not null;index" json:"user_id"`
	Title       string         `gorm:"size:100;not null" json:"title"` // e.g. "خانه", "محل کار"
	Recipient   string         `gorm:"size:100;not null" json:"recipient"`
	Phone       string         `gorm:"size:15;not null" json:"phone"`
	Province    string         `gorm:"size:100;not null" json:"province"`
	City        string         `gorm:"size:100;not null" json:"city"`
	PostalCode  string         `gorm:"size:10" json:"postal_code"`
	AddressLine string         `gorm:"type:text;not null" json:"address_line"`
	IsDefault   bool           `gorm:"default:false" json:"is_default"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Address) TableName() string {
	return "addresses"
}
