package models

import (
	"time"
)

// Tag names are free-form and unbounded; tips attach at most 5 of them,
// enforced at form level, not here.
type Tag struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null;uniqueIndex" json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
