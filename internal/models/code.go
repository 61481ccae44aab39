package models

// Code is a snippet attached to a Tip. Each Tip carries 1..5 of them
// (cardinality enforced by the tip form), and they go away with the Tip.
type Code struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	TipID    uint   `gorm:"not null;index" json:"tip_id"`
	Tip      Tip    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Filename string `gorm:"size:25" json:"filename"`
	Content  string `gorm:"type:text;not null" json:"content"`
}
