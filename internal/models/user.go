package models

import (
	"time"
)

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"size:150;not null;uniqueIndex" json:"username"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	Password     string    `gorm:"not null" json:"-"` // Hash
	Icon         string    `json:"icon"`              // stored file path, empty for none
	Introduction string    `gorm:"type:text" json:"introduction"`
	IsActive     bool      `gorm:"default:false;index" json:"is_active"` // false until email verified, false again after withdrawal
	Follows      []*User   `gorm:"many2many:user_follows;joinForeignKey:UserID;joinReferences:FollowID" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	// No DeletedAt: withdrawal deactivates, never deletes
}
