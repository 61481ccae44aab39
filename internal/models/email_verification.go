package models

import (
	"time"
)

// EmailVerification tracks the pending/verified state of a user's email.
// Withdrawal deletes the row; re-registration resets it to unverified with
// a fresh code.
type EmailVerification struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex" json:"user_id"`
	User      User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Email     string    `gorm:"not null;index" json:"email"`
	Code      string    `gorm:"size:20" json:"-"`
	Verified  bool      `gorm:"default:false" json:"verified"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
