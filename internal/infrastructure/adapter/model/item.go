package model

import (
	"time"
)

// Item represents the database model for catalog items
type Item struct {
	Barcode   string    `gorm:"primaryKey;size:100"`
	Name      string    `gorm:"not null;size:255;index"`
	Category  string    `gorm:"size:100"`
	Quantity  int       `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName specifies the table name for Item
func (Item) TableName() string {
	return "items"
}
