package models

import (
	"time"
)

type Comment struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	TipID       uint   `gorm:"not null;index;uniqueIndex:idx_tip_no" json:"tip_id"`
	Tip         Tip    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	No          int    `gorm:"not null;uniqueIndex:idx_tip_no" json:"no"` // per-tip sequence, never renumbered
	Text        string `gorm:"type:text;not null" json:"text"`
	CreatedByID uint   `gorm:"not null;index" json:"created_by_id"`
	CreatedBy   User   `gorm:"foreignKey:CreatedByID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"created_by"`
	// Recipients drive notification fan-out only, not access control.
	Recipients []User    `gorm:"many2many:comment_recipients;" json:"recipients"`
	CreatedAt  time.Time `json:"created_at"`
}
