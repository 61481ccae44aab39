package models

import (
	"time"
)

type NotificationCategory string

const (
	NotificationComment NotificationCategory = "comment"
	NotificationEvent   NotificationCategory = "event"
	NotificationFollow  NotificationCategory = "follow"
)

type Notification struct {
	ID          uint                 `gorm:"primaryKey" json:"id"`
	ToUserID    uint                 `gorm:"not null;index" json:"to_user_id"` // Receiver
	ToUser      User                 `gorm:"foreignKey:ToUserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Category    NotificationCategory `gorm:"type:varchar(20);not null" json:"category"`
	TipID       *uint                `gorm:"index" json:"tip_id"` // nil for follow notifications
	Tip         *Tip                 `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"tip"`
	Content     string               `gorm:"type:text" json:"content"`
	IsRead      bool                 `gorm:"default:false;index" json:"is_read"`
	CreatedByID *uint                `gorm:"index" json:"created_by_id"` // Actor, nil for system events
	CreatedBy   *User                `gorm:"foreignKey:CreatedByID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"created_by"`
	CreatedAt   time.Time            `json:"created_at"`
}
