package models

import (
	"time"
)

// Like joins Tip and User. The composite unique index is the source of
// truth against double-insert races, not application checks.
type Like struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index;uniqueIndex:idx_tip_user_like" json:"user_id"`
	User      User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	TipID     uint      `gorm:"not null;index;uniqueIndex:idx_tip_user_like" json:"tip_id"`
	Tip       Tip       `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}
