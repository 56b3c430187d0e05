package model

import (
	"time"
)

// VerificationToken holds a one-time SMS login code for a phone number.
// A new issuance supersedes (deletes) any previous token for the same phone,
// and a successful verification consumes the token. Never reused.
type VerificationToken struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Phone     string    `gorm:"size:15;not null;index" json:"phone"`
	Code      string    `gorm:"size:10;not null" json:"-"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

func (VerificationToken) TableName() string {
	return "verification_tokens"
}
