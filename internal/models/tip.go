package models

import (
	"time"
)

const (
	TipPrivate = "private"
	TipPublic  = "public"
)

type Tip struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:25;not null" json:"title"`
	Description string    `gorm:"type:text;not null" json:"description"`
	Tags        []Tag     `gorm:"many2many:tip_tags;" json:"tags"`
	UploadFile  string    `json:"upload_file"` // stored file path, optional
	URL         string    `json:"url"`         // Optional
	CreatedByID uint      `gorm:"not null;index" json:"created_by_id"`
	CreatedBy   User      `gorm:"foreignKey:CreatedByID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"created_by"`
	Visibility  string    `gorm:"size:20;not null;default:'private';index" json:"visibility"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Not a DB column; filled in batch by list queries
	LikeCount int `gorm:"-" json:"like_count"`
}

func (t *Tip) IsPublic() bool {
	return t.Visibility == TipPublic
}
